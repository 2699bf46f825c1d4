// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"crypto/subtle"
	"errors"
	"strings"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const authLocalsKey = "auth"

var (
	errInvalidToken = errors.New("invalid token")
	errNoSecret     = errors.New("jwt secret not configured")
)

var missingSecret = &apperror.ConfigurationError{Missing: "JWT_SECRET"}

// JwtMiddleware rejects requests without a valid bearer token. Without a
// configured secret every request fails with a configuration error.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return WriteError(ctx, missingSecret)
		}
		tokenStr, ok := bearerToken(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}
		auth, err := parseToken(tokenStr, secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		setAuth(ctx, auth)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware treats a missing token as anonymous. A present but
// invalid token is still rejected, and so is any token when no secret is configured.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr, ok := bearerToken(ctx)
		if !ok {
			setAuth(ctx, entity.Anonymous())
			return ctx.Next()
		}
		if secret == "" {
			return WriteError(ctx, missingSecret)
		}
		auth, err := parseToken(tokenStr, secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		setAuth(ctx, auth)
		return ctx.Next()
	}
}

// AdminTokenMiddleware guards support endpoints with a static token. An empty
// configured token disables them.
func AdminTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return WriteError(ctx, &apperror.ConfigurationError{Missing: "ADMIN_API_TOKEN"})
		}
		got := ctx.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid admin token"})
		}
		return ctx.Next()
	}
}

// AuthFromCtx returns the caller set by one of the JWT middlewares, or anonymous.
func AuthFromCtx(ctx *fiber.Ctx) entity.AuthContext {
	if auth, ok := ctx.Locals(authLocalsKey).(entity.AuthContext); ok {
		return auth
	}
	return entity.Anonymous()
}

func setAuth(ctx *fiber.Ctx, auth entity.AuthContext) {
	ctx.Locals(authLocalsKey, auth)
	if auth.UserId != nil {
		ctx.Locals("user_id", auth.UserId.String())
	}
}

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	tokenStr := strings.TrimSpace(authHeader[7:])
	return tokenStr, tokenStr != ""
}

func parseToken(tokenStr, secret string) (entity.AuthContext, error) {
	if secret == "" {
		return entity.AuthContext{}, errNoSecret
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return entity.AuthContext{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.AuthContext{}, errInvalidToken
	}

	rawId, _ := claims["user_id"].(string)
	if rawId == "" {
		rawId, _ = claims["sub"].(string)
	}
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return entity.AuthContext{}, errInvalidToken
	}

	email, _ := claims["email"].(string)
	return entity.AuthContext{UserId: &userId, Email: email}, nil
}
