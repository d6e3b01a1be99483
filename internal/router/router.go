package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KkaushikK18/Job-Portal/internal/auth"
	"github.com/KkaushikK18/Job-Portal/internal/jobs"
)

type Router struct {
	AuthHandler *auth.Handler
	JobsHandler *jobs.Handler
	AuthMW      fiber.Handler
	StudentMW   fiber.Handler
	RecruiterMW fiber.Handler
	AuthLimiter fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AuthHandler != nil {
		app.Post("/api/auth/register", r.AuthLimiter, r.AuthHandler.Register)
		app.Post("/api/auth/login", r.AuthLimiter, r.AuthHandler.Login)
		app.Get("/api/auth/me", r.AuthMW, r.AuthHandler.Me)
	}

	if r.JobsHandler != nil {
		app.Get("/api/jobs", r.JobsHandler.List)
		app.Post("/api/jobs", r.AuthMW, r.RecruiterMW, r.JobsHandler.Create)
		app.Post("/api/jobs/:id/apply", r.AuthMW, r.StudentMW, r.JobsHandler.Apply)
		app.Patch("/api/jobs/:id/applications/:index/status", r.AuthMW, r.RecruiterMW, r.JobsHandler.UpdateApplicationStatus)
		app.Get("/api/jobs/:id/applications.pdf", r.AuthMW, r.RecruiterMW, r.JobsHandler.ApplicationsPDF)
		app.Get("/api/me/applications", r.AuthMW, r.StudentMW, r.JobsHandler.MyApplications)
	}
}
