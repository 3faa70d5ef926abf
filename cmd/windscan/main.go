// Command windscan selects weather stations within a radius of a target
// point, computes wind speed statistics over their ISD-Lite observation
// files, and writes the observations with wind speed above
// mean + delta standard deviations as a CSV report.
//
// Usage:
//
//	go run ./cmd/windscan \
//	  -stations isd-history.csv \
//	  -data-dir 2008 \
//	  -out results.txt
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-wind-scan/internal/adapter/httpadapter"
	"github.com/couchcryptid/storm-wind-scan/internal/adapter/isdlite"
	kafkaadapter "github.com/couchcryptid/storm-wind-scan/internal/adapter/kafka"
	"github.com/couchcryptid/storm-wind-scan/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-wind-scan/internal/adapter/report"
	"github.com/couchcryptid/storm-wind-scan/internal/catalog"
	"github.com/couchcryptid/storm-wind-scan/internal/config"
	"github.com/couchcryptid/storm-wind-scan/internal/domain"
	"github.com/couchcryptid/storm-wind-scan/internal/observability"
	"github.com/couchcryptid/storm-wind-scan/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	stationsPath := flag.String("stations", "isd-history.csv", "path to the ISD station history CSV")
	dataDir := flag.String("data-dir", "2008", "directory containing ISD-Lite station-year files")
	outPath := flag.String("out", "results.txt", "report output path, or - for stdout")
	lat := flag.Float64("lat", 29.761993, "target latitude in decimal degrees")
	lon := flag.Float64("lon", -95.366302, "target longitude in decimal degrees")
	elevation := flag.Float64("elevation", 12, "target elevation in meters")
	radius := flag.Float64("radius", 600000, "station selection radius in meters")
	delta := flag.Float64("delta", 3, "outlier threshold in standard deviations above the mean")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cat, err := catalog.Load(*stationsPath)
	if err != nil {
		return err
	}
	logger.Info("station history loaded", "stations", cat.Len(), "path", *stationsPath)

	source := isdlite.NewSource(*dataDir)
	analyzer := pipeline.NewAnalyzer(source, cat, logger, metrics, cfg.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The HTTP surface is optional: one-shot CLI runs leave HTTP_ADDR
	// unset, long scans set it to watch progress via /metrics.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, analyzer, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	result, err := analyzer.Run(ctx, pipeline.Params{
		Latitude:  *lat,
		Longitude: *lon,
		Elevation: *elevation,
		Radius:    *radius,
		Delta:     *delta,
	})
	if err != nil {
		shutdown(srv, cfg, logger)
		return err
	}

	// Station name enrichment is feature-flagged: it calls an external
	// API and makes the report content depend on its responses.
	if cfg.MapboxEnabled {
		metrics.GeocodeEnabled.Set(1)
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger)
		geocoder := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize)
		logger.Info("station name enrichment enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
		result.Candidates = domain.EnrichStationNames(ctx, result.Candidates, geocoder, logger)
	}

	if err := report.WriteFile(*outPath, result.Candidates); err != nil {
		shutdown(srv, cfg, logger)
		return err
	}
	logger.Info("report written", "path", *outPath, "outliers", len(result.Candidates))

	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		if err := publisher.PublishBatch(ctx, result.Candidates); err != nil {
			logger.Error("kafka publish error", "error", err)
		} else {
			metrics.CandidatesPublished.Add(float64(len(result.Candidates)))
		}
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	shutdown(srv, cfg, logger)
	return nil
}

func shutdown(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
