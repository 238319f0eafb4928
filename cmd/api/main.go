package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tiagosv/llm-arena-api/internal/config"
	"github.com/tiagosv/llm-arena-api/internal/database"
	"github.com/tiagosv/llm-arena-api/internal/handler"
	"github.com/tiagosv/llm-arena-api/internal/middleware"
	"github.com/tiagosv/llm-arena-api/internal/repository"
	"github.com/tiagosv/llm-arena-api/internal/router"
	"github.com/tiagosv/llm-arena-api/internal/service"
	"github.com/tiagosv/llm-arena-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	evaluationRepo := repository.NewEvaluationRepository(db)
	if err := evaluationRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("failed to prepare database schema: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	} else {
		logger.Info().Msg("review cache disabled, no redis url configured")
	}

	openRouter, err := ai.NewOpenRouterClient(ai.OpenRouterConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create openrouter client: %v", err)
	}

	var client ai.Client = openRouter
	if cfg.QueryMemoEnabled {
		client = ai.NewMemoClient(openRouter)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionService := service.NewSessionService(client, evaluationRepo, cache, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, cache, cfg.ReviewCacheTTL, logger)

	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SessionHandler:    sessionHandler,
		EvaluationHandler: evaluationHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
