package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"interview-prep-backend/lib/utils/helpers"
)

func newTestApp(buf *bytes.Buffer) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagMethod, TagPath, TagStatus, TagBody, TagLatency},
	}))
	app.Post("/echo", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/audio", func(c *fiber.Ctx) error {
		c.Set(helpers.HeaderLogIgnore, "true")
		return c.SendString("binary")
	})
	return app
}

func TestLogger(t *testing.T) {
	t.Run(`request fields are logged`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		app := newTestApp(buf)
		resp, err := app.Test(httptest.NewRequest("POST", "/echo", strings.NewReader(`{"user_message":"hi"}`)))
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "POST", entry[TagMethod])
		require.Equal(t, "/echo", entry[TagPath])
		require.Equal(t, float64(200), entry[TagStatus])
		require.Equal(t, `{"user_message":"hi"}`, entry[TagBody])
		require.NotEmpty(t, entry[TagLatency])
	})

	t.Run(`ignored body is not logged and header is removed`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		app := newTestApp(buf)
		resp, err := app.Test(httptest.NewRequest("POST", "/audio", strings.NewReader("RIFF....")))
		require.NoError(t, err)
		require.Empty(t, resp.Header.Get(helpers.HeaderLogIgnore))

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		_, ok := entry[TagBody]
		require.False(t, ok)
	})
}

func TestLoggerConfig(t *testing.T) {
	t.Run(`defaults are filled`, func(t *testing.T) {
		cfg := configDefault(Config{Tags: []string{TagBody}})
		require.Equal(t, defaultMaxBodyLen, cfg.MaxBodyLen)
		require.NotNil(t, cfg.Skip)
		require.Equal(t, []string{TagBody}, cfg.Tags)
		require.Equal(t, ConfigDefault.Tags, configDefault(Config{}).Tags)
	})

	t.Run(`long body is truncated`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := logrus.New()
		logger.SetOutput(buf)
		logger.SetFormatter(&logrus.JSONFormatter{})
		app := fiber.New()
		app.Use(New(Config{Logger: logger, Tags: []string{TagBody}, MaxBodyLen: 5}))
		app.Post("/echo", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		_, err := app.Test(httptest.NewRequest("POST", "/echo", strings.NewReader("0123456789")))
		require.NoError(t, err)

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "01234...", entry[TagBody])
	})

	t.Run(`skipped request is not logged`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := logrus.New()
		logger.SetOutput(buf)
		app := fiber.New()
		app.Use(New(Config{
			Logger: logger,
			Skip: func(c *fiber.Ctx) bool {
				return c.Path() == "/quiet"
			},
		}))
		app.Get("/quiet", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/quiet", nil))
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		require.Empty(t, buf.String())
	})
}
