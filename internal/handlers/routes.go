package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/services"
)

type Routes struct {
	Sessions  services.SessionManager
	Auth      *AuthHandler
	Student   *StudentHandler
	Recruiter *RecruiterHandler
}

// Register mounts the API under /api/v1.
func (r Routes) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.HandleLogin)
	auth.Post("/logout", RequireSession(r.Sessions), r.Auth.HandleLogout)
	auth.Get("/me", RequireSession(r.Sessions), r.Auth.HandleMe)

	student := api.Group("/student", RequireSession(r.Sessions), RequireRole(models.RoleStudent))
	student.Post("/analyze", r.Student.HandleAnalyze)

	recruiter := api.Group("/recruiter", RequireSession(r.Sessions), RequireRole(models.RoleRecruiter))
	recruiter.Post("/rank", r.Recruiter.HandleRank)
	recruiter.Get("/runs/:id", r.Recruiter.HandleGetRun)
}
