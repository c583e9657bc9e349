package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/handlers"
	application_handlers "github.com/jagravi04/unimatch-finder/handlers/application"
	university_handlers "github.com/jagravi04/unimatch-finder/handlers/university"
	"github.com/jagravi04/unimatch-finder/services"
	"github.com/jagravi04/unimatch-finder/utils"
	"github.com/jagravi04/unimatch-finder/utils/middleware"
	"github.com/jagravi04/unimatch-finder/utils/response"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	Store       database.Storage
	Catalog     *services.CatalogService
	Submissions *services.SubmissionService

	AllowedOrigins    string
	RateLimitRequests int
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	universityHandler := university_handlers.NewUniversityHandler(deps.Catalog)
	applicationHandler := application_handlers.NewApplicationHandler(deps.Submissions)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.AllowedOrigins,
		RateLimitRequests: deps.RateLimitRequests,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, deps.Store))

	// API v1 group
	api := app.Group("/api/v1")

	// Catalog routes; compare must be registered before /:id
	universities := api.Group("/universities", middleware.CatalogCORS(deps.AllowedOrigins))
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/compare", universityHandler.CompareUniversities)
	universities.Get("/:id", universityHandler.GetUniversity)

	api.Get("/catalog/options", middleware.CatalogCORS(deps.AllowedOrigins), universityHandler.GetCatalogOptions)

	// Submission gateway, callable from any origin
	applications := api.Group("/applications", middleware.SubmissionCORS())
	applications.Post("/", applicationHandler.SubmitApplication)
	applications.Options("/", applicationHandler.Preflight)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
