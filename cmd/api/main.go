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
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/config"
	"github.com/openacad/acadledger-api/internal/database"
	"github.com/openacad/acadledger-api/internal/events"
	"github.com/openacad/acadledger-api/internal/handler"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/metadata"
	"github.com/openacad/acadledger-api/internal/middleware"
	"github.com/openacad/acadledger-api/internal/router"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/pkg/pinata"
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

	store := ledger.NewStore(db, logger)
	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate ledger schema: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	artifacts, err := pinata.New(pinata.Config{
		BaseURL:    cfg.PinataBaseURL,
		APIKey:     cfg.PinataAPIKey,
		APISecret:  cfg.PinataAPISecret,
		GatewayURL: cfg.PinataGateway,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create pinning client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	meta := metadata.NewStore(redisClient, logger)
	publisher := events.NewPublisher(natsConn, redisClient, cfg.EventStream, logger)

	assignmentService := service.NewAssignmentService(store, meta, artifacts, publisher, validate, logger)
	submissionService := service.NewSubmissionService(store, artifacts, publisher, logger)
	gradingService := service.NewGradingService(store, meta, artifacts, publisher, validate, cfg.GradeMax, logger)
	materialService := service.NewMaterialService(store, artifacts, validate, logger)
	rosterService := service.NewRosterService(store, meta, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		Ledger:            store,
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:    handler.NewGradingHandler(gradingService, logger),
		MaterialHandler:   handler.NewMaterialHandler(materialService, logger),
		RosterHandler:     handler.NewRosterHandler(rosterService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
