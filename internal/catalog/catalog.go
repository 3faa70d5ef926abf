// Package catalog loads the ISD station history and answers geospatial
// selection queries against it.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Catalog is an in-memory station lookup keyed by "USAF-WBAN" identifier.
type Catalog struct {
	stations map[string]domain.Station
}

// Load reads a station history CSV file into a Catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station history: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("station history %s: %w", path, err)
	}
	return c, nil
}

// Parse reads station history CSV from r. The first row is a header and
// is skipped. When an identifier repeats, the later row wins.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count validated per row by ParseStationRow

	stations := make(map[string]domain.Station)
	for line := 0; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		if line == 0 {
			continue // header
		}

		station, err := domain.ParseStationRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		stations[station.ID] = station
	}

	return &Catalog{stations: stations}, nil
}

// Station returns the station with the given identifier.
func (c *Catalog) Station(id string) (domain.Station, bool) {
	station, ok := c.stations[id]
	return station, ok
}

// Len returns the number of stations in the catalog.
func (c *Catalog) Len() int {
	return len(c.stations)
}

// SelectWithin returns the identifiers of all stations within radius
// meters of target. The boundary is inclusive. Stations missing any
// spatial attribute are silently excluded; they cannot be positioned.
func (c *Catalog) SelectWithin(target domain.Point, radius float64) map[string]struct{} {
	ids := make(map[string]struct{})
	for id, station := range c.stations {
		if !station.HasLocation() {
			continue
		}
		d := domain.Distance(target, domain.Point{
			Latitude:  *station.Latitude,
			Longitude: *station.Longitude,
			Elevation: *station.Elevation,
		})
		if d <= radius {
			ids[id] = struct{}{}
		}
	}
	return ids
}
