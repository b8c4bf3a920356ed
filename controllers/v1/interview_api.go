package apiv1

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/controllers"
	interviewhandler "interview-prep-backend/lib/interview"
	"interview-prep-backend/lib/voice"
	voicehub "interview-prep-backend/lib/voice/hub"
	"interview-prep-backend/middleware"
	apimodels "interview-prep-backend/models/api"
	interviewapimodels "interview-prep-backend/models/api/interview"
)

type interviewApiController struct {
	controllers.BaseAPIController
}

func InitInterviewApiRouters(app *fiber.App) {
	controller := interviewApiController{}
	app.Route("interviews", func(router fiber.Router) {
		router.Route("sessions/:id", func(sessRoute fiber.Router) {
			sessRoute.Get("", controller.getSession)
			sessRoute.Post("turn", controller.turn)
			sessRoute.Get("voice", controller.voiceUpgrade, websocket.New(controller.voice))
		})
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("start", controller.start)
			idRoute.Get("sessions", controller.listSessions)
		})
	})
}

// @Summary Создание интервью
// @Tags Интервью
// @Description Генерирует вопросы по параметрам и сохраняет интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 interviewapimodels.SetupPayload	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.CreateResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews [post]
func (c *interviewApiController) create(ctx *fiber.Ctx) error {
	var payload interviewapimodels.SetupPayload
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := interviewhandler.Instance.Create(ctx.UserContext(), "", middleware.GetUserID(ctx), payload.ToSetup())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to generate interview")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список интервью пользователя
// @Tags Интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   user_id		query	string 	false 	"Ид пользователя, если нет токена"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.ListItem}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews [get]
func (c *interviewApiController) list(ctx *fiber.Ctx) error {
	resp, err := interviewhandler.Instance.List(ctx.UserContext(), middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load interviews")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Интервью
// @Tags Интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID интервью"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.CreateResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id} [get]
func (c *interviewApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := interviewhandler.Instance.Get(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load interview")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Начало сессии интервью
// @Tags Интервью
// @Description Создает сессию и возвращает первый вопрос
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID интервью"
// @Param	body body	 interviewapimodels.SessionStartRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionStartResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/start [post]
func (c *interviewApiController) start(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := interviewhandler.Instance.StartSession(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("interview_id", id), err, "Failed to start interview")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Сессии интервью
// @Tags Интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID интервью"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/sessions [get]
func (c *interviewApiController) listSessions(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := interviewhandler.Instance.ListSessions(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load sessions")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Состояние сессии интервью
// @Tags Интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/sessions/{id} [get]
func (c *interviewApiController) getSession(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := interviewhandler.Instance.GetSession(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load session")
	}
	if voicehub.Instance != nil {
		resp.VoiceConnected = voicehub.Instance.IsConnected(resp.InterviewSessionID)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ответ кандидата в сессии интервью
// @Tags Интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID сессии"
// @Param	body body	 interviewapimodels.TurnRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.TurnResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/sessions/{id}/turn [post]
func (c *interviewApiController) turn(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload interviewapimodels.TurnRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.UserID = middleware.GetUserID(ctx)

	resp, err := interviewhandler.Instance.Turn(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("session_id", id), err, "Failed to process answer")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *interviewApiController) voiceUpgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Status(fiber.StatusUpgradeRequired).JSON(apimodels.NewError("Websocket upgrade required"))
	}
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Locals("sessionID", id)
	ctx.Locals("userID", middleware.GetUserID(ctx))
	return ctx.Next()
}

// @Summary Голосовой канал сессии интервью
// @Tags Интервью
// @Description Websocket. Клиент: ping, user_text, user_audio. Сервер: assistant_prompt, assistant_turn, completed, error, pong
// @Param   id          		path    string  				    	true         "ID сессии"
// @Param   user_id		query	string 	false 	"Ид пользователя, если нет токена"
// @Success 101 {object} wsmodels.ServerMessage
// @Failure 400 {object} apimodels.Response
// @Failure 426 {object} apimodels.Response
// @router /api/v1/interviews/sessions/{id}/voice [get]
func (c *interviewApiController) voice(conn *websocket.Conn) {
	sessionID, _ := conn.Locals("sessionID").(string)
	userID, _ := conn.Locals("userID").(string)
	if voice.Instance == nil {
		log.WithField("session_id", sessionID).Error("голосовой канал не инициализирован")
		return
	}
	voice.Instance.Serve(conn, sessionID, userID)
}
