package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-wind-scan/internal/catalog"
	"github.com/couchcryptid/storm-wind-scan/internal/domain"
	"github.com/couchcryptid/storm-wind-scan/internal/observability"
	"github.com/couchcryptid/storm-wind-scan/internal/stats"
)

// ErrInsufficientSamples is returned when the selected shards hold fewer
// than two wind speed observations, so no sample deviation exists.
var ErrInsufficientSamples = errors.New("fewer than two wind speed observations in selection")

// ShardSource lists and reads station-year observation shards.
type ShardSource interface {
	// List returns the shards belonging to the given station IDs.
	List(ctx context.Context, stationIDs map[string]struct{}) ([]domain.Shard, error)

	// Read streams every record in the shard through fn, stopping at the
	// first error fn returns.
	Read(ctx context.Context, shard domain.Shard, fn func(domain.Record) error) error
}

// Result summarizes one completed analysis run.
type Result struct {
	StationsSelected int
	ShardsScanned    int

	// WindSpeed aggregates every non-missing wind speed observation in
	// the selected shards.
	WindSpeed stats.Accumulator

	// Threshold is the wind speed above which a record is an outlier.
	Threshold float64

	// Candidates holds the outlier records in chronological order, with
	// the station identifier breaking timestamp ties.
	Candidates []domain.Candidate
}

// Analyzer runs the two-pass outlier scan: one pass to accumulate wind
// speed statistics over the selected shards, and a second to extract the
// records above the derived threshold.
type Analyzer struct {
	source  ShardSource
	catalog *catalog.Catalog
	logger  *slog.Logger
	metrics *observability.Metrics
	workers int
	ready   atomic.Bool
}

// NewAnalyzer creates an Analyzer. workers bounds shard-level concurrency;
// values below one mean one worker per CPU.
func NewAnalyzer(source ShardSource, cat *catalog.Catalog, logger *slog.Logger, metrics *observability.Metrics, workers int) *Analyzer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{
		source:  source,
		catalog: cat,
		logger:  logger,
		metrics: metrics,
		workers: workers,
	}
}

// CheckReadiness returns nil once the analyzer has completed a run,
// or an error describing why the service is not yet ready.
func (a *Analyzer) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no analysis run has completed yet")
	}
	return nil
}

// Run executes one full scan with the given parameters.
func (a *Analyzer) Run(ctx context.Context, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	a.logger.Info("scan started",
		"latitude", params.Latitude,
		"longitude", params.Longitude,
		"radius_m", params.Radius,
		"delta", params.Delta,
		"workers", a.workers,
	)
	a.metrics.ScanRunning.Set(1)
	defer a.metrics.ScanRunning.Set(0)

	selected := a.catalog.SelectWithin(params.Target(), params.Radius)
	a.metrics.StationsSelected.Set(float64(len(selected)))

	result := &Result{StationsSelected: len(selected)}
	if len(selected) == 0 {
		a.logger.Warn("no stations within radius", "radius_m", params.Radius)
		a.ready.Store(true)
		return result, nil
	}

	shards, err := a.source.List(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("list shards: %w", err)
	}
	result.ShardsScanned = len(shards)
	a.logger.Info("stations selected", "stations", len(selected), "shards", len(shards))

	acc, err := a.aggregate(ctx, shards)
	if err != nil {
		return nil, err
	}
	result.WindSpeed = acc

	stddev, ok := acc.SampleStdDev()
	if !ok {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientSamples, acc.Count())
	}
	result.Threshold = acc.Mean() + params.Delta*stddev

	a.logger.Info("statistics pass complete",
		"observations", acc.Count(),
		"mean", acc.Mean(),
		"stddev", stddev,
		"threshold", result.Threshold,
	)

	candidates, err := a.extract(ctx, shards, result.Threshold)
	if err != nil {
		return nil, err
	}
	result.Candidates = candidates
	a.metrics.OutliersFound.Add(float64(len(candidates)))

	a.logger.Info("scan complete", "outliers", len(candidates))
	a.ready.Store(true)
	return result, nil
}

// aggregate performs the statistics pass: each shard is accumulated
// independently, then the per-shard accumulators are merged.
func (a *Analyzer) aggregate(ctx context.Context, shards []domain.Shard) (stats.Accumulator, error) {
	start := time.Now()
	accs := make([]stats.Accumulator, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, shard := range shards {
		g.Go(func() error {
			err := a.source.Read(gctx, shard, func(rec domain.Record) error {
				a.metrics.RecordsRead.Inc()
				if rec.WindSpeed == nil {
					a.metrics.MissingWindSpeed.Inc()
					return nil
				}
				accs[i].Add(*rec.WindSpeed)
				return nil
			})
			if err != nil {
				return fmt.Errorf("shard %s: %w", shard.ID, err)
			}
			a.metrics.ShardsScanned.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats.Accumulator{}, err
	}

	var total stats.Accumulator
	for _, acc := range accs {
		total = stats.Merge(total, acc)
	}
	a.metrics.PassDuration.WithLabelValues("statistics").Observe(time.Since(start).Seconds())
	return total, nil
}

// extract performs the extraction pass: records with wind speed strictly
// above the threshold are collected, joined with station metadata, and
// sorted into the deterministic report order.
func (a *Analyzer) extract(ctx context.Context, shards []domain.Shard, threshold float64) ([]domain.Candidate, error) {
	start := time.Now()
	kept := make([][]domain.Candidate, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, shard := range shards {
		g.Go(func() error {
			station := a.lookupStation(domain.ShardStationID(shard.ID))
			err := a.source.Read(gctx, shard, func(rec domain.Record) error {
				if rec.WindSpeed == nil || *rec.WindSpeed <= threshold {
					return nil
				}
				kept[i] = append(kept[i], domain.Candidate{Record: rec, Station: station})
				return nil
			})
			if err != nil {
				return fmt.Errorf("shard %s: %w", shard.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var candidates []domain.Candidate
	for _, batch := range kept {
		candidates = append(candidates, batch...)
	}
	slices.SortFunc(candidates, domain.CompareCandidates)

	a.metrics.PassDuration.WithLabelValues("extraction").Observe(time.Since(start).Seconds())
	return candidates, nil
}

// lookupStation resolves station metadata for a shard, falling back to a
// bare identifier when the station is not in the history catalog.
func (a *Analyzer) lookupStation(stationID string) domain.Station {
	station, ok := a.catalog.Station(stationID)
	if !ok {
		a.logger.Warn("station not in catalog", "station_id", stationID)
		return domain.Station{ID: stationID}
	}
	return station
}
