package initializers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	"interview-prep-backend/fiberlog"
)

func newFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetFormatter(newFormatter())
	log.SetLevel(level)

	logger := log.New()
	logger.SetFormatter(newFormatter())
	logger.SetLevel(level)
	return &fiberlog.Config{
		Logger:     logger,
		MaxBodyLen: config.Conf.App.LogBodyLimit,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.RequestID,
		},
		// голосовой канал пишет свой лог подключения
		Skip: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || websocket.IsWebSocketUpgrade(c)
		},
	}
}
