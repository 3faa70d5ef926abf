package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-wind-scan/internal/catalog"
	"github.com/couchcryptid/storm-wind-scan/internal/domain"
	"github.com/couchcryptid/storm-wind-scan/internal/observability"
	"github.com/couchcryptid/storm-wind-scan/internal/pipeline"
)

const historyHeader = `"USAF","WBAN","STATION NAME","CTRY","ST","ICAO","LAT","LON","ELEV(M)","BEGIN","END"`

// fakeSource serves shards from memory, keyed by shard ID.
type fakeSource struct {
	shards  map[string][]domain.Record
	readErr map[string]error
}

func (f *fakeSource) List(_ context.Context, stationIDs map[string]struct{}) ([]domain.Shard, error) {
	var shards []domain.Shard
	for id := range f.shards {
		if _, ok := stationIDs[domain.ShardStationID(id)]; ok {
			shards = append(shards, domain.Shard{ID: id, Path: id + ".gz"})
		}
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i].ID < shards[j].ID })
	return shards, nil
}

func (f *fakeSource) Read(_ context.Context, shard domain.Shard, fn func(domain.Record) error) error {
	if err := f.readErr[shard.ID]; err != nil {
		return err
	}
	for _, rec := range f.shards[shard.ID] {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// houstonCatalog holds two stations near the default target and one in
// Pennsylvania, well outside a 600 km radius.
func houstonCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	rows := []string{
		historyHeader,
		`"722430","12960","G.B. BUSH INTERCONTINENTAL","US","TX","KIAH","+29.980","-095.360","+0029.0","19730101","20180516"`,
		`"722540","13904","AUSTIN-BERGSTROM","US","TX","KAUS","+30.183","-097.680","+0148.4","19420601","20180516"`,
		`"725118","14712","HARRISBURG INTL","US","PA","KMDT","+40.194","-076.772","+0094.5","19480101","20180516"`,
	}
	c, err := catalog.Parse(strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	return c
}

func houstonParams() pipeline.Params {
	return pipeline.Params{
		Latitude:  29.761993,
		Longitude: -95.366302,
		Elevation: 12,
		Radius:    600000,
		Delta:     3,
	}
}

func record(stationID string, year, month, day, hour int, windSpeed float64) domain.Record {
	return domain.Record{
		StationID: stationID,
		Year:      year,
		Month:     month,
		Day:       day,
		Hour:      hour,
		WindSpeed: &windSpeed,
	}
}

func newAnalyzer(t *testing.T, source pipeline.ShardSource, cat *catalog.Catalog, workers int) *pipeline.Analyzer {
	t.Helper()
	return pipeline.NewAnalyzer(source, cat, slog.Default(), observability.NewMetricsForTesting(), workers)
}

func TestAnalyzer_Run_HappyPath(t *testing.T) {
	// Wind speeds 0, 6, 12 give mean 6 and sample stddev 6, so a delta
	// of 0.5 places the threshold at exactly 9.
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {
			record("722430-12960", 2008, 9, 13, 7, 0),
			record("722430-12960", 2008, 9, 13, 8, 6),
			record("722430-12960", 2008, 9, 13, 9, 12),
		},
	}}

	params := houstonParams()
	params.Delta = 0.5

	a := newAnalyzer(t, source, houstonCatalog(t), 2)
	result, err := a.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 2, result.StationsSelected)
	assert.Equal(t, 1, result.ShardsScanned)
	assert.Equal(t, int64(3), result.WindSpeed.Count())
	assert.InDelta(t, 6.0, result.WindSpeed.Mean(), 1e-12)
	assert.InDelta(t, 9.0, result.Threshold, 1e-12)

	require.Len(t, result.Candidates, 1)
	got := result.Candidates[0]
	assert.Equal(t, 12.0, *got.Record.WindSpeed)
	assert.Equal(t, 9, got.Record.Hour)
	require.NotNil(t, got.Station.Name)
	assert.Equal(t, "G.B. BUSH INTERCONTINENTAL", *got.Station.Name)
}

func TestAnalyzer_Run_ThresholdIsStrict(t *testing.T) {
	// With delta 1 the threshold lands exactly on the maximum sample,
	// which must not be reported.
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {
			record("722430-12960", 2008, 9, 13, 7, 0),
			record("722430-12960", 2008, 9, 13, 8, 6),
			record("722430-12960", 2008, 9, 13, 9, 12),
		},
	}}

	params := houstonParams()
	params.Delta = 1

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	result, err := a.Run(context.Background(), params)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, result.Threshold, 1e-12)
	assert.Empty(t, result.Candidates)
}

func TestAnalyzer_Run_SkipsMissingWindSpeed(t *testing.T) {
	missing := domain.Record{StationID: "722430-12960", Year: 2008, Month: 1, Day: 1, Hour: 0}
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {
			missing,
			record("722430-12960", 2008, 1, 1, 1, 5),
			record("722430-12960", 2008, 1, 1, 2, 7),
		},
	}}

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	result, err := a.Run(context.Background(), houstonParams())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.WindSpeed.Count())
	assert.InDelta(t, 6.0, result.WindSpeed.Mean(), 1e-12)
}

func TestAnalyzer_Run_DeterministicOrder(t *testing.T) {
	// Both stations report an outlier at the same hour; the station
	// identifier breaks the tie.
	shared := []struct {
		station string
		shard   string
	}{
		{"722540-13904", "722540-13904-2008"},
		{"722430-12960", "722430-12960-2008"},
	}
	shards := make(map[string][]domain.Record)
	for _, s := range shared {
		shards[s.shard] = []domain.Record{
			record(s.station, 2008, 9, 13, 7, 50),
			record(s.station, 2008, 9, 12, 0, 1),
			record(s.station, 2008, 9, 12, 1, 2),
			record(s.station, 2008, 9, 12, 2, 3),
		}
	}
	source := &fakeSource{shards: shards}

	params := houstonParams()
	params.Delta = 1

	a := newAnalyzer(t, source, houstonCatalog(t), 4)

	var first []string
	for run := 0; run < 3; run++ {
		result, err := a.Run(context.Background(), params)
		require.NoError(t, err)

		var order []string
		for _, c := range result.Candidates {
			order = append(order, fmt.Sprintf("%s/%04d%02d%02d%02d",
				c.Record.StationID, c.Record.Year, c.Record.Month, c.Record.Day, c.Record.Hour))
		}
		if first == nil {
			first = order
			require.NotEmpty(t, order)
			assert.Equal(t, "722430-12960/2008091307", order[0])
			assert.Equal(t, "722540-13904/2008091307", order[1])
			continue
		}
		if diff := cmp.Diff(first, order); diff != "" {
			t.Fatalf("candidate order changed between runs (-first +got):\n%s", diff)
		}
	}
}

func TestAnalyzer_Run_EmptySelection(t *testing.T) {
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {record("722430-12960", 2008, 1, 1, 0, 10)},
	}}

	params := houstonParams()
	params.Radius = 1 // nothing within one meter

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	result, err := a.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 0, result.StationsSelected)
	assert.Equal(t, int64(0), result.WindSpeed.Count())
	assert.Empty(t, result.Candidates)
}

func TestAnalyzer_Run_InsufficientSamples(t *testing.T) {
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {record("722430-12960", 2008, 1, 1, 0, 10)},
	}}

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	_, err := a.Run(context.Background(), houstonParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInsufficientSamples)
}

func TestAnalyzer_Run_ShardReadError(t *testing.T) {
	source := &fakeSource{
		shards: map[string][]domain.Record{
			"722430-12960-2008": {record("722430-12960", 2008, 1, 1, 0, 10)},
		},
		readErr: map[string]error{
			"722430-12960-2008": errors.New("corrupt gzip stream"),
		},
	}

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	_, err := a.Run(context.Background(), houstonParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "722430-12960-2008")
	assert.Contains(t, err.Error(), "corrupt gzip stream")
}

func TestAnalyzer_Run_InvalidParams(t *testing.T) {
	a := newAnalyzer(t, &fakeSource{}, houstonCatalog(t), 1)

	params := houstonParams()
	params.Delta = -1

	_, err := a.Run(context.Background(), params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameters")
}

// unfilteredSource returns its shard list as-is, so it can hand back a
// shard for a station the history file has no row for.
type unfilteredSource struct {
	fakeSource
	list []domain.Shard
}

func (u *unfilteredSource) List(context.Context, map[string]struct{}) ([]domain.Shard, error) {
	return u.list, nil
}

func TestAnalyzer_Run_UnknownStationFallback(t *testing.T) {
	source := &unfilteredSource{
		fakeSource: fakeSource{shards: map[string][]domain.Record{
			"999999-00001-2008": {
				record("999999-00001", 2008, 1, 1, 0, 1),
				record("999999-00001", 2008, 1, 1, 1, 2),
				record("999999-00001", 2008, 1, 1, 2, 3),
				record("999999-00001", 2008, 9, 13, 7, 60),
			},
		}},
		list: []domain.Shard{{ID: "999999-00001-2008", Path: "999999-00001-2008.gz"}},
	}

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	result, err := a.Run(context.Background(), houstonParams())
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "999999-00001", result.Candidates[0].Station.ID)
	assert.Nil(t, result.Candidates[0].Station.Name)
}

func TestAnalyzer_CheckReadiness(t *testing.T) {
	source := &fakeSource{shards: map[string][]domain.Record{
		"722430-12960-2008": {
			record("722430-12960", 2008, 1, 1, 0, 1),
			record("722430-12960", 2008, 1, 1, 1, 2),
		},
	}}

	a := newAnalyzer(t, source, houstonCatalog(t), 1)
	require.Error(t, a.CheckReadiness(context.Background()))

	_, err := a.Run(context.Background(), houstonParams())
	require.NoError(t, err)
	assert.NoError(t, a.CheckReadiness(context.Background()))
}
