package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"exportease/internal/config"
	"exportease/internal/handlers"
	"exportease/internal/middleware"
	"exportease/internal/models"
	"exportease/internal/repositories"
	"exportease/internal/services"
	"exportease/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Initialize RabbitMQ Client (optional) ---
	// Signup events are a best-effort side channel; the service runs fine
	// without a broker.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, user events disabled")
	}

	// --- Initialize Credential Store ---
	// Postgres when configured, otherwise an in-memory store for local
	// development. TranslateError lets the repository detect the email
	// unique-constraint violation portably.
	var userRepo repositories.UserRepository
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		userRepo = repositories.NewGORMUserRepository(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory user store")
		userRepo = repositories.NewMockUserRepository()
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, mqClient, cfg)
	complianceService := services.NewComplianceService()
	estimateService := services.NewEstimateService(
		cfg.EstimatorAPIURL, cfg.EstimatorAPIKey, cfg.EstimatorModel, cfg.EstimatorTimeout)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	estimateHandler := handlers.NewEstimateHandler(estimateService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	// --- API Routes ---
	api := app.Group("/api")

	// Authentication routes (public): /api/users/signup, /api/users/login
	authHandler.RegisterRoutes(api)

	// Compliance document tooling (public, consumed by the web client)
	complianceHandler.RegisterRoutes(api)

	// Shipping estimates require a valid session token
	protected := api.Group("", middleware.AuthRequired(authService))
	estimateHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for user events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received user event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				// Downstream processing (welcome mail, CRM sync) hooks in here.
				return nil
			}
			if consumerErr := mqClient.ConsumeUserEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
