package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// wind-speed outlier scan.
type Metrics struct {
	StationsSelected prometheus.Gauge
	ShardsScanned    prometheus.Counter
	RecordsRead      prometheus.Counter
	MissingWindSpeed prometheus.Counter
	OutliersFound    prometheus.Counter
	ScanRunning      prometheus.Gauge

	// PassDuration observes each analysis pass; labels: pass={statistics,extraction}.
	PassDuration *prometheus.HistogramVec

	// Kafka publishing metrics.
	CandidatesPublished prometheus.Counter

	// Geocoding enrichment metrics.
	GeocodeEnabled prometheus.Gauge
}

// NewMetrics creates and registers all scan metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StationsSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wind_scan",
			Name:      "stations_selected",
			Help:      "Stations matched by the geospatial filter in the current run.",
		}),
		ShardsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_scan",
			Name:      "shards_scanned_total",
			Help:      "Total station-year shards read during the statistics pass.",
		}),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_scan",
			Name:      "records_read_total",
			Help:      "Total observation records parsed during the statistics pass.",
		}),
		MissingWindSpeed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_scan",
			Name:      "missing_wind_speed_total",
			Help:      "Observation records carrying the missing-value sentinel for wind speed.",
		}),
		OutliersFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_scan",
			Name:      "outliers_found_total",
			Help:      "Records whose wind speed exceeded the outlier threshold.",
		}),
		ScanRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wind_scan",
			Name:      "scan_running",
			Help:      "1 while an analysis run is active, 0 otherwise.",
		}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wind_scan",
			Name:      "pass_duration_seconds",
			Help:      "Duration of each analysis pass over the selected shards.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"pass"}),
		CandidatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_scan",
			Name:      "candidates_published_total",
			Help:      "Outlier candidates published to the Kafka sink topic.",
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wind_scan",
			Name:      "geocode_enabled",
			Help:      "1 when station name enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.StationsSelected,
		m.ShardsScanned,
		m.RecordsRead,
		m.MissingWindSpeed,
		m.OutliersFound,
		m.ScanRunning,
		m.PassDuration,
		m.CandidatesPublished,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StationsSelected:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wind_scan", Name: "stations_selected"}),
		ShardsScanned:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wind_scan", Name: "shards_scanned_total"}),
		RecordsRead:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wind_scan", Name: "records_read_total"}),
		MissingWindSpeed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wind_scan", Name: "missing_wind_speed_total"}),
		OutliersFound:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wind_scan", Name: "outliers_found_total"}),
		ScanRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wind_scan", Name: "scan_running"}),
		PassDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "wind_scan", Name: "pass_duration_seconds"}, []string{"pass"}),
		CandidatesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wind_scan", Name: "candidates_published_total"}),
		GeocodeEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wind_scan", Name: "geocode_enabled"}),
	}
}
