package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"interview-prep-backend/lib/utils/helpers"
)

const (
	TagPid       = "pid"
	TagLatency   = "latency"
	TagStatus    = "status"
	TagMethod    = "method"
	TagPath      = "path"
	TagURL       = "url"
	TagIP        = "ip"
	TagUserAgent = "ua"
	TagBody      = "body"
	TagResBody   = "resBody"
	RequestID    = "requestid"
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag возвращает значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid:     func(c *fiber.Ctx, d *data) interface{} { return d.pid },
		TagLatency: func(c *fiber.Ctx, d *data) interface{} { return d.end.Sub(d.start).String() },
		TagStatus:  func(c *fiber.Ctx, d *data) interface{} { return c.Response().StatusCode() },
		TagMethod:  func(c *fiber.Ctx, d *data) interface{} { return c.Method() },
		TagPath:    func(c *fiber.Ctx, d *data) interface{} { return c.Path() },
		TagURL:     func(c *fiber.Ctx, d *data) interface{} { return c.OriginalURL() },
		TagIP:      func(c *fiber.Ctx, d *data) interface{} { return c.IP() },
		TagUserAgent: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if isLogIgnored(c) {
				return ""
			}
			return helpers.Truncate(string(c.Body()), cfg.MaxBodyLen)
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if isLogIgnored(c) {
				return ""
			}
			return helpers.Truncate(string(c.Response().Body()), cfg.MaxBodyLen)
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			if id := c.Get(fiber.HeaderXRequestID); id != "" {
				return id
			}
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

// isLogIgnored тела с аудио и файлами не пишутся в лог
func isLogIgnored(c *fiber.Ctx) bool {
	return c.GetRespHeader(helpers.HeaderLogIgnore) != ""
}
