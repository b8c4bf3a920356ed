package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"interview-prep-backend/config"
	authutils "interview-prep-backend/lib/utils/auth-utils"
)

func newAuthApp(secret string) *fiber.App {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = secret
	app := fiber.New()
	app.Use(AuthorizationOptional())
	app.All("/whoami", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserID(ctx))
	})
	return app
}

func readBody(t *testing.T, app *fiber.App, req *httptestRequest) (int, string) {
	resp, err := app.Test(req.build())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

type httptestRequest struct {
	method, target, body, contentType, token string
}

func (r *httptestRequest) build() *http.Request {
	req := httptest.NewRequest(r.method, r.target, strings.NewReader(r.body))
	if r.contentType != "" {
		req.Header.Set(fiber.HeaderContentType, r.contentType)
	}
	if r.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+r.token)
	}
	return req
}

func TestAuthorizationOptional(t *testing.T) {
	t.Run(`token subject wins over query`, func(t *testing.T) {
		app := newAuthApp("secret")
		token, err := authutils.GetToken("user-1", time.Hour, "secret")
		require.NoError(t, err)
		status, body := readBody(t, app, &httptestRequest{method: "GET", target: "/whoami?user_id=user-2", token: token})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "user-1", body)
	})

	t.Run(`invalid token rejected`, func(t *testing.T) {
		app := newAuthApp("secret")
		token, err := authutils.GetToken("user-1", time.Hour, "other")
		require.NoError(t, err)
		status, _ := readBody(t, app, &httptestRequest{method: "GET", target: "/whoami", token: token})
		require.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run(`no token falls back to query`, func(t *testing.T) {
		app := newAuthApp("secret")
		status, body := readBody(t, app, &httptestRequest{method: "GET", target: "/whoami?user_id=user-2"})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "user-2", body)
	})

	t.Run(`no token falls back to json body`, func(t *testing.T) {
		app := newAuthApp("")
		status, body := readBody(t, app, &httptestRequest{
			method: "POST", target: "/whoami",
			body: `{"user_id":"user-3"}`, contentType: fiber.MIMEApplicationJSON,
		})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "user-3", body)
	})

	t.Run(`anonymous`, func(t *testing.T) {
		app := newAuthApp("")
		status, body := readBody(t, app, &httptestRequest{method: "GET", target: "/whoami"})
		require.Equal(t, fiber.StatusOK, status)
		require.Empty(t, body)
	})
}

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(8))
	app.Post("/", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("POST", "/", strings.NewReader("small")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/", strings.NewReader("much too large body")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}
