package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docsportal/internal/auth"
)

// ClaimsLocalKey holds the verified *auth.Claims in Fiber's context locals.
const ClaimsLocalKey = "claims"

// TokenParser verifies access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.ParseAccessToken(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid bearer token is present. Missing or invalid
// tokens leave the request anonymous.
func OptionalAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw, ok := bearerToken(c); ok {
			if claims, err := tokens.ParseAccessToken(raw); err == nil {
				c.Locals(ClaimsLocalKey, claims)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFromCtx returns the caller's claims, or nil for anonymous requests.
func ClaimsFromCtx(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

// UserIDFromCtx returns the caller's user id, or "" for anonymous requests.
func UserIDFromCtx(c *fiber.Ctx) string {
	if claims := ClaimsFromCtx(c); claims != nil {
		return claims.UserID()
	}
	return ""
}
