package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	apimodels "interview-prep-backend/models/api"
)

// ErrNotify отправляет сведения об ответах 5xx на внешний адрес (бот оповещений)
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data apimodels.Response
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("ошибка разбора тела ответа для оповещения")
		}
		msg := data.Message
		if msg == "" {
			msg = string(c.Response().Body())
		}
		method := c.Method()
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}

		go func() {
			payload := fmt.Sprintf(`{"code":%d,"method":%q,"path":%q,"error":%q}`, statusCode, method, path, msg)
			resp, reqErr := client.Post(addr, fiber.MIMEApplicationJSON, strings.NewReader(payload))
			if reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки оповещения об ошибке")
				return
			}
			resp.Body.Close()
		}()
		return err
	}
}
