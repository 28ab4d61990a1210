package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	httpadapter "github.com/couchcryptid/corsica-dataviz/internal/adapter/http"
	"github.com/couchcryptid/corsica-dataviz/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/corsica-dataviz/internal/adapter/kafka"
	"github.com/couchcryptid/corsica-dataviz/internal/adapter/mapbox"
	"github.com/couchcryptid/corsica-dataviz/internal/config"
	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"github.com/couchcryptid/corsica-dataviz/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxRateLimit, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox coordinate backfill enabled", "region", cfg.MapboxRegion, "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox coordinate backfill disabled")
	}

	// Initialize exporter (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = writer
		logger.Info("kafka dataset export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka dataset export disabled")
	}

	loader := jsonfile.NewLoader(cfg.CommunesPath, cfg.FiresPath, logger)
	transformer := pipeline.NewTransformer(geocoder, cfg.MapboxRegion, logger, metrics)
	p := pipeline.New(loader, transformer, publisher, logger, metrics)

	mapSettings := domain.DefaultMapSettings()
	mapSettings.TileURL = cfg.MapTileURL
	dashboard := pipeline.NewDashboard(p, domain.NewFormatter(cfg.Locale), mapSettings, logger, metrics)

	srv := httpadapter.NewServer(
		httpadapter.Options{Addr: cfg.HTTPAddr, AllowedOrigins: cfg.CORSAllowedOrigins},
		dashboard, p, logger, metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Load the dataset; a dataset that cannot be loaded stops the service.
	var failed atomic.Bool
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			failed.Store(true)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if failed.Load() {
		os.Exit(1)
	}
}
