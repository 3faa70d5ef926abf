package domain

import (
	"fmt"
	"strconv"
	"time"
)

// stationFieldCount is the number of columns in an isd-history CSV row.
const stationFieldCount = 11

// historyDateLayout is the YYYYMMDD period-of-record date format.
const historyDateLayout = "20060102"

// Station is one row of the ISD station history catalog. Optional
// columns are nil when the metadata is not available upstream.
type Station struct {
	USAF string `json:"usaf"`
	WBAN string `json:"wban"`
	ID   string `json:"id"` // "USAF-WBAN", unique across the catalog

	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"` // FIPS country code
	State   *string `json:"state,omitempty"`   // US state, where applicable
	ICAO    *string `json:"icao,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`  // decimal degrees
	Longitude *float64 `json:"longitude,omitempty"` // decimal degrees
	Elevation *float64 `json:"elevation,omitempty"` // meters

	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
}

// HasLocation reports whether the station carries all three spatial
// attributes needed to compute a distance.
func (s Station) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil && s.Elevation != nil
}

// ParseStationRow builds a Station from one CSV row of the station
// history file. Empty optional columns become nil; malformed numeric or
// date columns are format errors.
func ParseStationRow(row []string) (Station, error) {
	if len(row) != stationFieldCount {
		return Station{}, fmt.Errorf("parse station: expected %d columns, got %d", stationFieldCount, len(row))
	}

	usaf, wban := row[0], row[1]
	id := usaf + "-" + wban

	lat, err := optionalFloat(row[6])
	if err != nil {
		return Station{}, fmt.Errorf("station %s: latitude: %w", id, err)
	}
	lon, err := optionalFloat(row[7])
	if err != nil {
		return Station{}, fmt.Errorf("station %s: longitude: %w", id, err)
	}
	elev, err := optionalFloat(row[8])
	if err != nil {
		return Station{}, fmt.Errorf("station %s: elevation: %w", id, err)
	}
	begin, err := time.Parse(historyDateLayout, row[9])
	if err != nil {
		return Station{}, fmt.Errorf("station %s: begin date: %w", id, err)
	}
	end, err := time.Parse(historyDateLayout, row[10])
	if err != nil {
		return Station{}, fmt.Errorf("station %s: end date: %w", id, err)
	}

	return Station{
		USAF:      usaf,
		WBAN:      wban,
		ID:        id,
		Name:      optionalString(row[2]),
		Country:   optionalString(row[3]),
		State:     optionalString(row[4]),
		ICAO:      optionalString(row[5]),
		Latitude:  lat,
		Longitude: lon,
		Elevation: elev,
		Begin:     begin,
		End:       end,
	}, nil
}

func optionalString(column string) *string {
	if column == "" {
		return nil
	}
	return &column
}

func optionalFloat(column string) (*float64, error) {
	if column == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(column, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
