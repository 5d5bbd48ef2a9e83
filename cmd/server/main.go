package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/foster034/pal-content-api/configs"
	"github.com/foster034/pal-content-api/internal/api/handlers"
	"github.com/foster034/pal-content-api/internal/api/middleware"
	job "github.com/foster034/pal-content-api/internal/jobs"
	"github.com/foster034/pal-content-api/internal/queue"
	"github.com/foster034/pal-content-api/internal/repository"
	"github.com/foster034/pal-content-api/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer redisClient.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	asynqClient := asynq.NewClient(redisConn)
	defer asynqClient.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Admin-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	credentialRepo := repository.NewCredentialRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	publishedPostRepo := repository.NewPublishedPostRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	contentRepo := repository.NewContentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, redisClient)

	settingsService := service.NewSettingsService(settingsRepo)
	authService := service.NewGBPAuthService(*cfg, credentialRepo, service.NewGBPDirectory())
	tokenService := service.NewTokenService(*cfg, credentialRepo, settingsService)
	statusService := service.NewStatusService(credentialRepo)
	connectionService := service.NewConnectionService(credentialRepo)
	publishService := service.NewPublishService(scheduledPostRepo, publishedPostRepo, settingsService)
	repairService := service.NewRepairService(scheduledPostRepo, publishedPostRepo, photoRepo, contentRepo)

	adminMiddleware := middleware.NewAdminMiddleware(*cfg)

	gbp := handlers.NewGBPHandler(authService, statusService, connectionService, *cfg)
	app.Get("/gbp/authorize", gbp.Authorize)
	app.Get("/gbp/callback", gbp.Callback)

	api := app.Group("/api")
	api.Get("/gbp/status", gbp.Status)
	api.Post("/gbp/update-location", gbp.UpdateLocation)
	api.Post("/gbp/disconnect", gbp.Disconnect)
	api.Post("/gbp/post-url", gbp.PostURL)

	posts := handlers.NewPostsHandler(publishService)
	api.Get("/scheduled-posts", posts.ListScheduled)
	api.Post("/scheduled-posts", posts.CreateScheduled)
	api.Post("/scheduled-posts/archive", posts.ArchiveScheduled)
	api.Get("/published-posts", posts.ListPublished)
	api.Post("/published-posts", posts.CreatePublished)
	api.Patch("/published-posts/:id", posts.UpdatePublished)
	api.Delete("/published-posts/:id", posts.DeletePublished)

	admin := app.Group("/admin", adminMiddleware.RequireAdminKey())
	adminHandler := handlers.NewAdminHandler(asynqClient)
	admin.Post("/repair/backfill-franchise-ids", adminHandler.BackfillFranchiseIDs)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(credentialRepo, tokenService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 5,
		})

		worker := queue.NewWorker(repairService)
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeBackfillFranchiseIDs, worker.HandleBackfillTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
