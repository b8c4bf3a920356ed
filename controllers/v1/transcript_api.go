package apiv1

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"interview-prep-backend/controllers"
	transcripthandler "interview-prep-backend/lib/transcript"
	"interview-prep-backend/lib/utils/helpers"
	"interview-prep-backend/middleware"
	apimodels "interview-prep-backend/models/api"
	transcriptapimodels "interview-prep-backend/models/api/transcript"
	dbmodels "interview-prep-backend/models/db"
)

type transcriptApiController struct {
	controllers.BaseAPIController
}

func InitTranscriptApiRouters(app *fiber.App) {
	controller := transcriptApiController{}
	app.Route("transcripts", func(router fiber.Router) {
		router.Post("voice/transcribe", controller.transcribe)
		router.Route(":session_type/:session_id", func(sessRoute fiber.Router) {
			sessRoute.Get("", controller.list)
			sessRoute.Get("export", controller.export)
		})
	})
}

func (c *transcriptApiController) getSession(ctx *fiber.Ctx) (dbmodels.SessionType, string, error) {
	sessionType := dbmodels.SessionType(ctx.Params("session_type"))
	if !sessionType.IsValid() {
		return "", "", errors.New("некорректный тип сессии, ожидается collector или interview")
	}
	sessionID, err := c.GetParamID(ctx, "session_id")
	if err != nil {
		return "", "", err
	}
	return sessionType, sessionID, nil
}

// @Summary Стенограмма сессии
// @Tags Стенограммы
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   session_type		path    string  	true         "collector | interview"
// @Param   session_id  		path    string  	true         "ID сессии"
// @Success 200 {object} apimodels.Response{data=transcriptapimodels.ListResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/transcripts/{session_type}/{session_id} [get]
func (c *transcriptApiController) list(ctx *fiber.Ctx) error {
	sessionType, sessionID, err := c.getSession(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	items, err := transcripthandler.Instance.List(sessionType, sessionID, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load transcript")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(transcriptapimodels.ListResponse{
		UserID: userID,
		Items:  items,
	}))
}

// @Summary Выгрузка стенограммы
// @Tags Стенограммы
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   session_type		path    string  	true         "collector | interview"
// @Param   session_id  		path    string  	true         "ID сессии"
// @Param   format		query	string 	false 	"xlsx (по умолчанию) | pdf"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/transcripts/{session_type}/{session_id}/export [get]
func (c *transcriptApiController) export(ctx *fiber.Ctx) error {
	sessionType, sessionID, err := c.getSession(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	format := transcriptapimodels.ExportFormat(ctx.Query("format", string(transcriptapimodels.ExportXlsx)))
	file, err := transcripthandler.Instance.Export(sessionType, sessionID, middleware.GetUserID(ctx), format)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to export transcript")
	}
	ctx.Set(helpers.HeaderLogIgnore, "true")
	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	return ctx.Status(fiber.StatusOK).Send(file.Data)
}

// @Summary Распознавание аудио
// @Tags Стенограммы
// @Description Распознает аудио файл. Если указана сессия, текст добавляется в ее стенограмму
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   file		formData	file 	true 	"Аудио файл"
// @Param   session_type		formData	string 	false 	"collector | interview"
// @Param   session_id		formData	string 	false 	"ID сессии"
// @Param   user_id		formData	string 	false 	"Ид пользователя, если нет токена"
// @Success 200 {object} apimodels.Response{data=transcriptapimodels.VoiceTranscribeResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/transcripts/voice/transcribe [post]
func (c *transcriptApiController) transcribe(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан аудио файл"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read audio")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read audio")
	}

	upload := transcripthandler.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
		SessionType: dbmodels.SessionType(ctx.FormValue("session_type")),
		SessionID:   ctx.FormValue("session_id"),
		UserID:      middleware.GetUserID(ctx),
	}
	if upload.SessionID != "" && !upload.SessionType.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректный тип сессии, ожидается collector или interview"))
	}
	ctx.Set(helpers.HeaderLogIgnore, "true")
	resp, err := transcripthandler.Instance.TranscribeUpload(ctx.UserContext(), upload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to transcribe audio")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
