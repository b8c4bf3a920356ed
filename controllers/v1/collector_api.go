package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"interview-prep-backend/controllers"
	collectorhandler "interview-prep-backend/lib/collector"
	"interview-prep-backend/lib/utils/helpers"
	"interview-prep-backend/middleware"
	apimodels "interview-prep-backend/models/api"
	collectorapimodels "interview-prep-backend/models/api/collector"
)

type collectorApiController struct {
	controllers.BaseAPIController
}

func InitCollectorApiRouters(app *fiber.App) {
	controller := collectorApiController{}
	app.Route("collector", func(router fiber.Router) {
		router.Post("start", controller.start)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("turn", controller.turn)
		})
	})
}

// @Summary Начало сбора параметров интервью
// @Tags Сбор параметров
// @Description Создает сессию, возвращает приветствие и первый вопрос
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 collectorapimodels.StartRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=collectorapimodels.StartResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collector/start [post]
func (c *collectorApiController) start(ctx *fiber.Ctx) error {
	var payload collectorapimodels.StartRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	payload.UserID = middleware.GetUserID(ctx)
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := collectorhandler.Instance.Start(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to start setup session")
	}
	if payload.WithAudio {
		ctx.Set(helpers.HeaderLogIgnore, "true")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Реплика пользователя в сессии сбора параметров
// @Tags Сбор параметров
// @Description Обрабатывает ответ, исправление или вопрос пользователя. При заполнении всех полей создает интервью
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID сессии"
// @Param	body body	 collectorapimodels.TurnRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=collectorapimodels.TurnResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collector/{id}/turn [post]
func (c *collectorApiController) turn(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload collectorapimodels.TurnRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.UserID = middleware.GetUserID(ctx)

	resp, err := collectorhandler.Instance.Turn(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("session_id", id), err, "Failed to process message")
	}
	if payload.WithAudio {
		ctx.Set(helpers.HeaderLogIgnore, "true")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Состояние сессии сбора параметров
// @Tags Сбор параметров
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id          		path    string  				    	true         "ID сессии"
// @Success 200 {object} apimodels.Response{data=collectorapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collector/{id} [get]
func (c *collectorApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := collectorhandler.Instance.Get(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load setup session")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
