package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachpack/internal/api"
	"coachpack/internal/config"
	"coachpack/internal/repository"
	"coachpack/internal/repository/local"
	mongorepo "coachpack/internal/repository/mongo"
	"coachpack/internal/saveq"
	"coachpack/internal/service"
	"coachpack/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Coach Pack API
// @version 1.0
// @description API for goals, calendar planning, life-balance wheel, values and vision boards.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Coach Pack Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Repositories ---
	var (
		userRepo   repository.UserRepository
		goalRepo   repository.GoalRepository
		eventRepo  repository.EventRepository
		wheelRepo  repository.WheelRepository
		valuesRepo repository.ValuesRepository
		visionRepo repository.VisionRepository
	)

	switch cfg.Database.Driver {
	case "mongo":
		dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongorepo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		log.Println("Ensuring database indexes...")
		go func() { // Run index creation concurrently/in background
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
			mongorepo.EnsureGoalIndexes(ctx, appDB.Collection("goals"))
			mongorepo.EnsureEventIndexes(ctx, appDB.Collection("calendar_events"))
			mongorepo.EnsureFeatureIndexes(ctx, appDB)
			log.Println("Index creation process completed.")
		}()

		userRepo = mongorepo.NewMongoUserRepository(appDB)
		goalRepo = mongorepo.NewMongoGoalRepository(appDB)
		eventRepo = mongorepo.NewMongoEventRepository(appDB)
		wheelRepo = mongorepo.NewMongoWheelRepository(appDB)
		valuesRepo = mongorepo.NewMongoValuesRepository(appDB)
		visionRepo = mongorepo.NewMongoVisionRepository(appDB)

	case "local":
		log.Printf("Using local disk store at %s", cfg.Database.LocalPath)
		store := local.NewStore(cfg.Database.LocalPath)
		userRepo = local.NewUserRepository(store)
		goalRepo = local.NewGoalRepository(store)
		eventRepo = local.NewEventRepository(store)
		wheelRepo = local.NewWheelRepository(store)
		valuesRepo = local.NewValuesRepository(store)
		visionRepo = local.NewVisionRepository(store)

	default:
		log.Fatalf("FATAL: Unknown database driver %q (expected mongo or local)", cfg.Database.Driver)
	}

	// --- Image Storage ---
	// Optional: without a bucket the vision board works minus images.
	var imageStorage storage.ImageStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing image storage...")
		imageStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured; vision board images disabled.")
	}

	// --- Save Queue ---
	saves := saveq.New(cfg.Save.Debounce)

	// --- Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	goalService := service.NewGoalService(goalRepo, saves)
	calendarService := service.NewCalendarService(eventRepo, goalService)
	wheelService := service.NewWheelService(wheelRepo, saves)
	valuesService := service.NewValuesService(valuesRepo, saves)
	visionService := service.NewVisionService(visionRepo, imageStorage, saves)
	billingService := service.NewBillingService(userRepo, cfg.Stripe)
	adminService := service.NewAdminService(userRepo)

	// --- Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Handlers{
		Auth:     authService,
		Goals:    goalService,
		Calendar: calendarService,
		Wheel:    wheelService,
		Values:   valuesService,
		Vision:   visionService,
		Billing:  billingService,
		Admin:    adminService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	// Flush pending debounced writes so no edit made just before the
	// signal is lost.
	log.Println("Flushing pending saves...")
	saves.Close()

	log.Println("Server exiting.")
}
