package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ecy-service/ecy_service/internal/middleware"
	"github.com/ecy-service/ecy_service/internal/response"
)

const (
	msgLoginOK       = "login succeeded"
	msgUserInfoOK    = "user info fetched"
	msgLogoutOK      = "logout succeeded"
	msgEmptyBody     = "request body must not be empty"
	msgMalformedBody = "malformed request body"
)

// Handler exposes the session endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a session HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Phone string `json:"phone"`
}

// Login issues (or returns the existing) token for the posted phone.
func (h *Handler) Login(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, msgEmptyBody)
	}
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, msgMalformedBody)
	}
	token, err := h.service.Login(requestContext(c), req.Phone)
	if err != nil {
		if errors.Is(err, ErrPhoneRequired) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return response.OK(c, msgLoginOK, token)
}

// UserInfo returns the profile bound to the Authorization token.
func (h *Handler) UserInfo(c *fiber.Ctx) error {
	profile, err := h.service.UserInfo(requestContext(c), middleware.TokenFrom(c))
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, ErrInvalidToken.Error())
	}
	return response.OK(c, msgUserInfoOK, profile)
}

// Logout ends the session for the Authorization token; it always succeeds.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(requestContext(c), middleware.TokenFrom(c)); err != nil {
		return err
	}
	return response.OK(c, msgLogoutOK, nil)
}

func requestContext(c *fiber.Ctx) context.Context {
	return WithRequestID(c.UserContext(), middleware.RequestIDFrom(c))
}
