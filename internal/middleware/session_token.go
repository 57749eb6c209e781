package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sessionTokenKey = "session_token"

// SessionToken lifts the Authorization header into request locals. Both the bare
// token and the "Bearer <token>" form are accepted. A missing header is not rejected
// here; handlers decide whether a token is mandatory.
func SessionToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if len(authz) > len("bearer ") && strings.EqualFold(authz[:len("bearer ")], "bearer ") {
			authz = strings.TrimSpace(authz[len("bearer "):])
		}
		c.Locals(sessionTokenKey, authz)
		return c.Next()
	}
}

// TokenFrom returns the token captured by SessionToken.
func TokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(sessionTokenKey).(string)
	return token
}
