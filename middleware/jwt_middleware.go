package middleware

import (
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"interview-prep-backend/config"
	authutils "interview-prep-backend/lib/utils/auth-utils"
	apimodels "interview-prep-backend/models/api"
)

const userIDParam = "user_id"

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("Invalid or expired token"))
		},
	})
}

// AuthorizationOptional проверяет токен, только если он передан и задан секрет.
// Без токена пользователь определяется параметром user_id
func AuthorizationOptional() fiber.Handler {
	required := AuthorizationRequired()
	return func(ctx *fiber.Ctx) error {
		if config.Conf.Auth.JWTSecret == "" || !hasBearer(ctx) {
			return ctx.Next()
		}
		return required(ctx)
	}
}

func hasBearer(ctx *fiber.Ctx) bool {
	auth := ctx.Get(fiber.HeaderAuthorization)
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimSpace(auth[len("Bearer "):]) != ""
}

// GetUserID пользователь из токена, иначе из query или тела запроса
func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if value, ok := sub.(string); ok && value != "" {
			return value
		}
	}
	if value := strings.TrimSpace(ctx.Query(userIDParam)); value != "" {
		return value
	}
	if ctx.Is("json") || strings.Contains(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		body := struct {
			UserID string `json:"user_id" form:"user_id"`
		}{}
		if err := ctx.BodyParser(&body); err == nil {
			return strings.TrimSpace(body.UserID)
		}
	}
	return ""
}
