package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AppOptions struct {
	BodyLimit          int
	RateLimitPerMinute int
	// AccessLog enables the fiber request logger.
	AccessLog bool
}

type Handlers struct {
	Interview *InterviewHandler
	Coding    *CodingHandler
	User      *UserHandler
}

var endpoints = []string{
	"POST /api/interview/start",
	"POST /api/interview/answer",
	"POST /api/interview/save",
	"GET /api/interview/report/:id",
	"POST /api/interview/resume/analyze",
	"POST /api/interview/chat",
	"POST /api/interview/chat/resume",
	"POST /api/interview/coding/problem",
	"POST /api/interview/coding/review",
	"POST /api/interview/analyze",
	"GET /api/user/stats/:id",
	"GET /api/user/history/:id",
	"GET /api/user/analytics/:id",
	"GET /api/user/session/:id",
	"DELETE /api/user/session/:id",
	"GET /api/health",
	"GET /metrics",
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(opts AppOptions, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Coach API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "AI Interview Coach API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	interview := api.Group("/interview")
	if opts.RateLimitPerMinute > 0 {
		interview.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, slow down",
				})
			},
		}))
	}
	interview.Post("/start", h.Interview.HandleStart)
	interview.Post("/answer", h.Interview.HandleAnswer)
	interview.Post("/save", h.Interview.HandleSave)
	interview.Get("/report/:id", h.Interview.HandleReport)
	interview.Post("/resume/analyze", h.Interview.HandleResumeAnalyze)
	interview.Post("/chat", h.Interview.HandleChat)
	interview.Post("/chat/resume", h.Interview.HandleChatResume)
	interview.Post("/analyze", h.Interview.HandleAnalyze)
	interview.Post("/coding/problem", h.Coding.HandleProblem)
	interview.Post("/coding/review", h.Coding.HandleReview)

	user := api.Group("/user")
	user.Get("/stats/:id", h.User.HandleStats)
	user.Get("/history/:id", h.User.HandleHistory)
	user.Get("/analytics/:id", h.User.HandleAnalytics)
	user.Get("/session/:id", h.User.HandleSession)
	user.Delete("/session/:id", h.User.HandleDeleteSession)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
