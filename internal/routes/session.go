package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecy-service/ecy_service/internal/session"
)

// RegisterSessionRoutes wires login, user info and logout.
func RegisterSessionRoutes(r fiber.Router, h *session.Handler) {
	r.Post("/login", h.Login)
	r.Post("/getUserInfo", h.UserInfo)
	r.Post("/logout", h.Logout)
}
