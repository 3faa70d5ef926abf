// Package report renders outlier candidates as the CSV results file.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Header names the report columns. Wind speed is in tenths of a meter
// per second, matching the raw observation encoding.
const Header = "YEAR,MONTH,DAY,HOUR,WIND SPEED*10(m/s),USAF-WBAN,STATION_NAME,COUNTRY,STATE,LATITUDE,LONGITUDE,ELEVATION(m)"

// Write renders the candidates to w in their given order. Missing
// station attributes become empty columns.
func Write(w io.Writer, candidates []domain.Candidate) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return err
	}

	for _, c := range candidates {
		_, err := fmt.Fprintf(w, "%d,%d,%d,%d,%s,%s,%s,%s,%s,%s,%s,%s\n",
			c.Record.Year,
			c.Record.Month,
			c.Record.Day,
			c.Record.Hour,
			windSpeedTenths(c.Record.WindSpeed),
			stationID(c),
			orEmpty(c.Station.Name),
			orEmpty(c.Station.Country),
			orEmpty(c.Station.State),
			coord(c.Station.Latitude, "%+07.3f"),
			coord(c.Station.Longitude, "%+08.3f"),
			coord(c.Station.Elevation, "%+07.1f"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the report to path, creating parent directories as
// needed. A path of "-" writes to stdout.
func WriteFile(path string, candidates []domain.Candidate) error {
	if path == "-" {
		return Write(os.Stdout, candidates)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, candidates); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func windSpeedTenths(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", int64(math.Round(10**v)))
}

// stationID prefers the catalog identifier but falls back to the one
// carried on the record when the station is unknown.
func stationID(c domain.Candidate) string {
	if c.Station.ID != "" {
		return c.Station.ID
	}
	return c.Record.StationID
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coord(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}
