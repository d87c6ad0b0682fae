package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kodbank/kodbank/internal/command"
	"github.com/kodbank/kodbank/internal/config"
	"github.com/kodbank/kodbank/internal/events"
	"github.com/kodbank/kodbank/internal/handler"
	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/query"
	redisClient "github.com/kodbank/kodbank/internal/redis"
	"github.com/kodbank/kodbank/internal/repository"
)

func main() {
	cfg := config.Load()

	// Database connection (write store)
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialise schema: %v", err)
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(cfg.RedisAddr, "", 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)

	accountWriteRepo := repository.NewAccountWriteRepository(db)
	accountReadRepo := repository.NewAccountReadRepository(db, redis.Client)
	tokenRepo := repository.NewTokenRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	accountCmdSvc := command.NewAccountCommandService(accountWriteRepo, accountReadRepo, publisher)
	sessionCmdSvc := command.NewSessionCommandService(accountWriteRepo, tokenRepo)
	transferCmdSvc := command.NewTransferCommandService(accountWriteRepo, accountReadRepo, publisher)

	accountQrySvc := query.NewAccountQueryService(accountReadRepo)
	ledgerQrySvc := query.NewLedgerQueryService(ledgerRepo)

	authHandler := handler.NewAuthHandler(accountCmdSvc, sessionCmdSvc)
	accountHandler := handler.NewAccountHandler(accountQrySvc)
	transferHandler := handler.NewTransferHandler(transferCmdSvc, ledgerQrySvc)

	// Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		authed := api.Group("", middleware.AuthMiddleware())
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/balance", accountHandler.GetBalance)
			authed.GET("/user", accountHandler.GetUser)
			authed.POST("/transfer", transferHandler.Transfer)
			authed.GET("/transactions", transferHandler.ListTransactions)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Read-model resync consumer for completed transfers.
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "kodbank-read-model-group",
			Consumer: "kodbank-consumer-1",
			Stream:   events.LedgerEventsStream,
			Handler:  accountCmdSvc.HandleTransferEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("Server running on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
