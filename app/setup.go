package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/jagravi04/unimatch-finder/api"
	"github.com/jagravi04/unimatch-finder/config"
	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/router"
	"github.com/jagravi04/unimatch-finder/services"
	"github.com/jagravi04/unimatch-finder/services/cron"
	"github.com/jagravi04/unimatch-finder/services/storage"
	"github.com/jagravi04/unimatch-finder/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		print("If not running, run the following command:\n")
		print("  make docker-up   (for Docker setup)\n")
		print("  make db-up       (for local PostgreSQL)\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	db := store.GetDB()
	universities := database.NewUniversityRepository(db)
	applications := database.NewApplicationRepository(db)

	// Redis is optional; without it every search reads the database
	var catalogCache services.CatalogCache
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Warnf("Failed to connect to Redis: %v. Catalog caching will be disabled.", err)
	} else {
		catalogCache = redisCache
	}
	catalog := services.NewCatalogService(universities, catalogCache, getEnv.CATALOG_CACHE_TTL)

	var notifier services.Notifier
	if mailer := services.NewEmailService(getEnv); mailer.IsConfigured() {
		notifier = mailer
	} else {
		log.Info("SMTP not configured, confirmation mails disabled")
	}
	submissions := services.NewSubmissionService(universities, applications, notifier)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		deps := cron.Dependencies{DB: db, Catalog: catalog, Applications: applications}
		spaces, err := storage.NewSpacesClient(storage.ConfigFromEnv(getEnv))
		switch {
		case err == nil:
			deps.Uploader = spaces
		case errors.Is(err, storage.ErrNotConfigured):
			log.Info("Export storage not configured, daily export will be skipped")
		default:
			log.Warnf("Failed to create export storage client: %v", err)
		}

		cronManager = cron.NewCronManager(deps)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
		}
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))

	// Setup Routes
	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Store:             store,
		Catalog:           catalog,
		Submissions:       submissions,
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down gracefully...")
		if err := server.Shutdown(); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}
	}()

	// Start the Server; returns after Shutdown
	return server.Run()
}
