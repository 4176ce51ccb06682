package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/services"
)

const (
	SessionCookie = "session_token"

	localsSession = "session"
)

// RequireSession resolves the caller's session from a bearer token or the
// session cookie.
func RequireSession(sessions services.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Please log in first.",
			})
		}

		session, err := sessions.Get(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired. Please log in again.",
			})
		}

		session.Token = token
		c.Locals(localsSession, session)
		return c.Next()
	}
}

// RequireRole rejects sessions logged in under a different role. It must run
// after RequireSession.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := CurrentSession(c)
		if session == nil || session.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This page is only available to " + string(role) + " accounts.",
			})
		}
		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(localsSession).(*models.Session)
	return session
}

func sessionToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(SessionCookie)
}
