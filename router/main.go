package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sahilchouksey/edu-directory/config"
	"github.com/sahilchouksey/edu-directory/database"
	"github.com/sahilchouksey/edu-directory/handlers"
	course_handlers "github.com/sahilchouksey/edu-directory/handlers/course"
	institution_handlers "github.com/sahilchouksey/edu-directory/handlers/institution"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/sahilchouksey/edu-directory/services"
	"github.com/sahilchouksey/edu-directory/utils"
	"github.com/sahilchouksey/edu-directory/utils/middleware"
	"github.com/sahilchouksey/edu-directory/utils/response"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	// Store is nil when the directory is served from memory
	Store  database.Storage
	Repo   repository.Repository
	Logger *zap.Logger
	Env    *config.EnviornmentVariable
	// Quiet disables the access log
	Quiet bool
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	searchService := services.NewSearchService(deps.Repo, deps.Logger)
	detailService := services.NewDetailService(deps.Repo, deps.Logger)

	institutionHandler := institution_handlers.NewInstitutionHandler(searchService, detailService, deps.Env.QUERY_TIMEOUT)
	courseHandler := course_handlers.NewCourseHandler(searchService, detailService, deps.Env.QUERY_TIMEOUT)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.Env.ALLOWED_ORIGINS,
		RateLimitRequests: deps.Env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   1 * time.Minute,
		DisableAccessLog:  deps.Quiet,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, deps.Store))

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API v1 group
	api := app.Group("/api/v1")

	institutions := api.Group("/institutions")
	institutions.Get("/", institutionHandler.ListInstitutions)
	institutions.Get("/:id", institutionHandler.GetInstitution)

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
