package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"shelving/internal/handlers"
	"shelving/internal/middleware"
	"shelving/internal/repositories"
	"shelving/internal/services"
	"shelving/internal/store"
	"shelving/pkg/jsonbin"
	"shelving/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_PATH", "data/storage.db")
	viper.SetDefault("SEED_DB_PATH", "database.db")
	viper.SetDefault("SYNC_ID", "")
	viper.SetDefault("JWT_SECRET", "shelving-dev-secret")
	viper.SetDefault("JSONBIN_URL", "")
	viper.SetDefault("JSONBIN_KEY_FILE", "data/jsonbin.key")
	viper.SetDefault("SHARE_BASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Open the embedded store ---
	// SYNC_ID substitutes a cloud snapshot for the local image, matching the
	// share links the sync handler emits.
	bins := jsonbin.NewClient(viper.GetString("JSONBIN_URL"))
	st, err := store.Open(store.Config{
		Path:     viper.GetString("DB_PATH"),
		SeedPath: viper.GetString("SEED_DB_PATH"),
		SyncID:   viper.GetString("SYNC_ID"),
	}, bins)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// --- Optional RabbitMQ event publisher ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set; inventory event publishing disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(st)
	nodeRepo := repositories.NewGORMNodeRepository(st)
	blockRepo := repositories.NewGORMBlockRepository(st)
	recordRepo := repositories.NewGORMRecordRepository(st)
	noteRepo := repositories.NewGORMNoteRepository(st)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, st, viper.GetString("JWT_SECRET"))
	nodeService := services.NewNodeService(nodeRepo, st, mqClient)
	blockService := services.NewBlockService(blockRepo, st, mqClient)
	recordService := services.NewRecordService(recordRepo, st, mqClient)
	noteService := services.NewNoteService(noteRepo, st, mqClient)
	syncService := services.NewSyncService(st, bins,
		viper.GetString("JSONBIN_KEY_FILE"), viper.GetString("SHARE_BASE_URL"))

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	nodeHandler := handlers.NewNodeHandler(nodeService)
	blockHandler := handlers.NewBlockHandler(blockService)
	recordHandler := handlers.NewRecordHandler(recordService)
	noteHandler := handlers.NewNoteHandler(noteService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // restored images arrive as one body
	})
	app.Use(logger.New())

	// --- API Routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	nodeHandler.RegisterRoutes(protected)
	blockHandler.RegisterRoutes(protected)
	recordHandler.RegisterRoutes(protected)
	noteHandler.RegisterRoutes(protected)
	syncHandler.RegisterRoutes(protected)

	api.Use(handlers.NotFound)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start inventory event consumer ---
	// Mirrors published mutations into the log; a real deployment would hook
	// an audit sink here.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for inventory events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Inventory event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeInventoryEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
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
