package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Config настройки логирования запросов api
type Config struct {
	// Logger если не задан, используется стандартный логгер logrus и все запросы пишутся как info
	Logger *logrus.Logger
	Tags   []string
	// MaxBodyLen тела запроса и ответа длиннее обрезаются, 0 - значение по умолчанию
	MaxBodyLen int
	// Skip запросы, для которых лог не пишется
	Skip func(c *fiber.Ctx) bool
}

const defaultMaxBodyLen = 2048

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
	MaxBodyLen: defaultMaxBodyLen,
	Skip:       skipPreflight,
}

func skipPreflight(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodOptions
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}
	cfg := config[0]
	if len(cfg.Tags) == 0 {
		cfg.Tags = ConfigDefault.Tags
	}
	if cfg.MaxBodyLen <= 0 {
		cfg.MaxBodyLen = defaultMaxBodyLen
	}
	if cfg.Skip == nil {
		cfg.Skip = skipPreflight
	}
	return cfg
}
