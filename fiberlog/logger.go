package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/lib/utils/helpers"
)

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg, nil)
	return func(c *fiber.Ctx) error {
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if cfg.Skip(c) {
			c.Response().Header.Del(helpers.HeaderLogIgnore)
			return err
		}

		fields := getLogrusFields(ftm, c, d)
		c.Response().Header.Del(helpers.HeaderLogIgnore)
		message := getMessage(c)
		switch cfg.Logger {
		case nil:
			log.WithFields(fields).Info(message)
		default:
			entity := cfg.Logger.WithFields(fields)
			if c.Response().StatusCode() >= fiber.StatusInternalServerError {
				entity.Error(message)
			} else if c.Response().StatusCode() >= fiber.StatusMultipleChoices {
				entity.Warn(message)
			} else {
				entity.Info(message)
			}
		}

		return err
	}
}

func getMessage(c *fiber.Ctx) string {
	return "запрос api"
}
