package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/services"
)

type AuthHandler struct {
	sessions services.SessionManager
}

func NewAuthHandler(sessions services.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.sessions.Login(c.UserContext(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotSelected):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"warning": "Please select a role.",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials. Please try again.",
			})
		default:
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(models.LoginResponse{
		Token:    session.Token,
		Username: session.Username,
		Role:     session.Role,
	})
}

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	session := CurrentSession(c)
	if session == nil {
		return fiber.ErrUnauthorized
	}

	if err := h.sessions.Logout(session.Token); err != nil && !errors.Is(err, services.ErrSessionNotFound) {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	session := CurrentSession(c)
	if session == nil {
		return fiber.ErrUnauthorized
	}

	return c.JSON(session)
}
