package main

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/KkaushikK18/Job-Portal/internal/auth"
	"github.com/KkaushikK18/Job-Portal/internal/config"
	"github.com/KkaushikK18/Job-Portal/internal/database"
	"github.com/KkaushikK18/Job-Portal/internal/jobs"
	"github.com/KkaushikK18/Job-Portal/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	pool := database.NewPool(cfg.DatabaseURL)
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(auth.NewRepository(pool), issuer, cfg.BcryptCost)
	jobsHandler := jobs.NewHandler(jobs.NewRepository(pool))

	r := &router.Router{
		AuthHandler: authHandler,
		JobsHandler: jobsHandler,
		AuthMW:      auth.RequireAuth(issuer),
		StudentMW:   auth.RequireRole(auth.RoleStudent),
		RecruiterMW: auth.RequireRole(auth.RoleRecruiter),
		AuthLimiter: router.RateLimitAuth(cfg.AuthRateMax, cfg.AuthRateWindow),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
