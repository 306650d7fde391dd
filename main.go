package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"event-reservation/cmd"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/usecase"
	"event-reservation/internal/wire"
	"event-reservation/internal/worker"
	"event-reservation/pkg/cache"
	"event-reservation/pkg/database"
	"event-reservation/pkg/rabbitmq"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied")
	}

	// Optional venue cache
	var venueCache repository.KeyValueCache
	if config.Redis.Addr != "" {
		redisCache := cache.NewCache(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, venue cache disabled", zap.Error(err))
			redisCache.Close()
		} else {
			defer redisCache.Close()
			venueCache = redisCache
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}

	// Optional event publisher
	var publisher usecase.EventPublisher
	if config.AMQP.URL != "" {
		amqpPublisher, err := rabbitmq.NewPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, booking events will not be published", zap.Error(err))
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, venueCache, config.Redis.VenueTTL, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, database.NewTransactor(db), publisher, config, logger)

	if config.Notification.CleanupEnabled {
		cleanup := worker.NewCleanupWorker(
			app.Service.Notification,
			repos.Session,
			config.Notification.Retention(),
			config.Notification.CleanupHour,
			logger,
		)
		go cleanup.Start(ctx)
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
