package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geostory/internal/adapters/gemini"
	"github.com/samirrijal/geostory/internal/adapters/http"
	"github.com/samirrijal/geostory/internal/adapters/ipfs"
	natsadapter "github.com/samirrijal/geostory/internal/adapters/nats"
	"github.com/samirrijal/geostory/internal/adapters/pinata"
	"github.com/samirrijal/geostory/internal/adapters/postgres"
	"github.com/samirrijal/geostory/internal/adapters/valkey"
	"github.com/samirrijal/geostory/internal/core/ports"
	"github.com/samirrijal/geostory/internal/core/usecases"
	"github.com/samirrijal/geostory/internal/pkg/config"
	"github.com/samirrijal/geostory/internal/pkg/logging"
	"github.com/samirrijal/geostory/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geostory-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("geostory-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database (optional — run history only)
	var db *postgres.DB
	var runRepo ports.RunRepository
	if cfg.Database.Enabled {
		db, err = postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			slog.Warn("database unavailable, run history disabled", "error", err)
		} else {
			defer db.Close()
			runRepo = postgres.NewRunRepo(db)
		}
	}

	// Cache (optional — pin listing only)
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// NATS (optional — pipeline events + WebSocket relay)
	var events ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}

		// Separate plain connection for the WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		}
	}

	// Collaborators
	catalog := pinata.New(cfg.Catalog)
	gateway := ipfs.New(cfg.Gateway)
	generator := gemini.New(cfg.Gemini)

	// Pipeline
	fetcher := usecases.NewFetchService(gateway, events)
	analyzer := usecases.NewAnalysisService(generator, events)
	synthesizer := usecases.NewSynthesisService(generator)

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	pipeline := usecases.NewPipeline(catalog, fetcher, analyzer, synthesizer, cacheSvc, runRepo, events, cfg.Search.RadiusKm)

	deps := &http.Dependencies{
		Pipeline: pipeline,
		Runs:     runRepo,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "GeoStory API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
