package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scholargraph/scholargraph-backend/internal/db"
	"github.com/scholargraph/scholargraph-backend/internal/handlers"
	"github.com/scholargraph/scholargraph-backend/internal/nlp"
	"github.com/scholargraph/scholargraph-backend/internal/observability"
	"github.com/scholargraph/scholargraph-backend/internal/platform/envutil"
	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/platform/neo4jdb"
	"github.com/scholargraph/scholargraph-backend/internal/platform/redisdb"
	"github.com/scholargraph/scholargraph-backend/internal/repos"
	"github.com/scholargraph/scholargraph-backend/internal/server"
	"github.com/scholargraph/scholargraph-backend/internal/services"
)

const serviceName = "scholargraph-backend"

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(ctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	// Neo4j
	log.Info("Connecting graph store from main...")
	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init Neo4j client", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = neoClient.Close(ctx)
	}()

	// Redis (optional)
	cacheClient, err := redisdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Redis init failed, continuing without cache", "error", err)
		cacheClient = nil
	}
	defer cacheClient.Close()

	// Catalog
	catalogService, err := db.NewCatalogService(log)
	if err != nil {
		log.Error("Could not init catalog", "error", err)
		os.Exit(1)
	}
	defer catalogService.Close()
	if err := catalogService.AutoMigrateAll(); err != nil {
		log.Warn("Catalog auto migration failed", "error", err)
	}
	catalogDB := catalogService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	paperRepo := repos.NewPaperRepo(catalogDB, log)

	// Services
	log.Info("Setting up services from main...")
	recognizer := nlp.NewCooccurrenceRecognizer()
	extractionService := services.NewContentExtractionService(log)
	paperService, err := services.NewPaperService(log, neoClient, cacheClient, paperRepo, recognizer, extractionService)
	if err != nil {
		log.Error("Could not init PaperService", "error", err)
		os.Exit(1)
	}
	graphService := services.NewGraphService(log, neoClient, cacheClient)

	if envutil.Bool("SEED_ON_STARTUP", false) {
		if _, err := paperService.SeedDemoPapers(context.Background()); err != nil {
			log.Warn("Demo seeding failed", "error", err)
		}
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	paperHandler := handlers.NewPaperHandler(log, paperService, graphService)
	graphHandler := handlers.NewGraphHandler(log, graphService, paperService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:  serviceName,
		PaperHandler: paperHandler,
		GraphHandler: graphHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
