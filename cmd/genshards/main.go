// Command genshards generates a synthetic station history CSV and
// matching gzip-compressed ISD-Lite station-year files for local runs
// and demos. It uses the actual domain package to format rows, so the
// fixtures parse exactly like real archive files.
//
// Usage:
//
//	go run ./cmd/genshards \
//	  -out-dir data/fixtures \
//	  -year 2008 \
//	  -stations 12 \
//	  -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Fixture stations spread around Houston: some inside a 600 km radius,
// some far outside, one with no coordinates at all.
var fixtureStations = []struct {
	usaf, wban, name, country, state, icao string
	lat, lon, elev                         float64
	noLocation                             bool
}{
	{usaf: "722430", wban: "12960", name: "G.B. BUSH INTERCONTINENTAL", country: "US", state: "TX", icao: "KIAH", lat: 29.980, lon: -95.360, elev: 29.0},
	{usaf: "722540", wban: "13904", name: "AUSTIN-BERGSTROM INTL", country: "US", state: "TX", icao: "KAUS", lat: 30.183, lon: -97.680, elev: 148.4},
	{usaf: "722590", wban: "03927", name: "DALLAS-FORT WORTH INTL", country: "US", state: "TX", icao: "KDFW", lat: 32.898, lon: -97.019, elev: 170.7},
	{usaf: "722310", wban: "12916", name: "NEW ORLEANS INTL", country: "US", state: "LA", icao: "KMSY", lat: 29.993, lon: -90.251, elev: 1.2},
	{usaf: "725118", wban: "14712", name: "HARRISBURG INTL", country: "US", state: "PA", icao: "KMDT", lat: 40.194, lon: -76.772, elev: 94.5},
	{usaf: "724060", wban: "93721", name: "BALTIMORE-WASHINGTON INTL", country: "US", state: "MD", icao: "KBWI", lat: 39.173, lon: -76.684, elev: 47.5},
	{usaf: "999999", wban: "00414", name: "UNLOCATED TEST SITE", noLocation: true},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/fixtures", "output directory for the history CSV and shard files")
	year := flag.Int("year", 2008, "observation year to generate")
	hours := flag.Int("hours", 24*30, "observation hours per station")
	seed := flag.Int64("seed", 42, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	shardDir := filepath.Join(*outDir, fmt.Sprintf("%d", *year))
	if err := os.MkdirAll(shardDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writeHistory(filepath.Join(*outDir, "isd-history.csv")); err != nil {
		return err
	}

	for _, st := range fixtureStations {
		id := fmt.Sprintf("%s-%s", st.usaf, st.wban)
		path := filepath.Join(shardDir, fmt.Sprintf("%s-%d.gz", id, *year))
		if err := writeShard(path, id, *year, *hours, rng); err != nil {
			return fmt.Errorf("station %s: %w", id, err)
		}
		log.Printf("%s: %d hours", path, *hours)
	}
	return nil
}

func writeHistory(path string) error {
	var sb strings.Builder
	sb.WriteString(`"USAF","WBAN","STATION NAME","CTRY","ST","ICAO","LAT","LON","ELEV(M)","BEGIN","END"` + "\n")
	for _, st := range fixtureStations {
		lat, lon, elev := "", "", ""
		if !st.noLocation {
			lat = fmt.Sprintf("%+08.3f", st.lat)
			lon = fmt.Sprintf("%+09.3f", st.lon)
			elev = fmt.Sprintf("%+07.1f", st.elev)
		}
		sb.WriteString(fmt.Sprintf("%q,%q,%q,%q,%q,%q,%q,%q,%q,%q,%q\n",
			st.usaf, st.wban, st.name, st.country, st.state, st.icao,
			lat, lon, elev, "19730101", "20180516"))
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// writeShard emits hourly observations with lognormal-ish wind speeds
// plus a few injected gusts well above the bulk, so default parameters
// find outliers in the fixtures.
func writeShard(path, stationID string, year, hours int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < hours; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)

		rec := domain.Record{
			StationID: stationID,
			Year:      ts.Year(),
			Month:     int(ts.Month()),
			Day:       ts.Day(),
			Hour:      ts.Hour(),
		}

		// Around 2% of real archive rows have no wind measurement.
		if rng.Float64() >= 0.02 {
			speed := rng.Float64() * 8
			if rng.Float64() < 0.002 {
				speed = 25 + rng.Float64()*15 // injected gust
			}
			speed = float64(int(speed*10)) / 10
			rec.WindSpeed = &speed

			dir := rng.Intn(360)
			rec.WindDirection = &dir
		}

		temp := float64(int((5+rng.Float64()*25)*10)) / 10
		rec.AirTemperature = &temp

		if _, err := fmt.Fprintln(gz, domain.FormatRecord(rec)); err != nil {
			return err
		}
	}
	return gz.Close()
}
