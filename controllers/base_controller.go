package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/middleware"
	"interview-prep-backend/models"
	apimodels "interview-prep-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("path", ctx.Path()).
		WithField("method", ctx.Method()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// GetID ид из пути, должен быть uuid
func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParamID(ctx, "id")
}

func (c *BaseAPIController) GetParamID(ctx *fiber.Ctx, name string) (string, error) {
	id := ctx.Params(name)
	if id == "" {
		return "", errors.Errorf("не указан параметр %v", name)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("некорректный параметр %v", name)
	}
	return id, nil
}

// SendError выбирает статус по ошибке обработчика. msg уходит клиенту для внутренних ошибок
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrCompleted), errors.Is(err, models.ErrNoQuestions), errors.Is(err, models.ErrBadRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrSessionBusy):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).Error(msg)
		return ctx.Status(status).JSON(apimodels.NewError(msg))
	}
	logger.WithError(err).Warn(msg)
	return ctx.Status(status).JSON(apimodels.NewError(publicMessage(err)))
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "Not found"
	case errors.Is(err, models.ErrCompleted):
		return "Session is already completed"
	case errors.Is(err, models.ErrNoQuestions):
		return "Interview has no questions"
	case errors.Is(err, models.ErrSessionBusy):
		return "Session is busy, retry later"
	}
	return err.Error()
}
