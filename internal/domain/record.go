package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingValue is the ISD-Lite sentinel for a field that was not measured.
const missingValue = -9999

// recordFieldCount is the number of whitespace-separated fields in an
// ISD-Lite observation row: year, month, day, hour, and eight measurements.
const recordFieldCount = 12

// Record is one hourly surface observation from a station-year shard.
// Measurement fields are nil when the source carried the missing
// sentinel; zero is a valid measurement.
type Record struct {
	StationID string `json:"station_id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`

	AirTemperature   *float64 `json:"air_temperature,omitempty"`    // degrees Celsius
	DewPoint         *float64 `json:"dew_point,omitempty"`          // degrees Celsius
	SeaLevelPressure *float64 `json:"sea_level_pressure,omitempty"` // hectopascals
	WindDirection    *int     `json:"wind_direction,omitempty"`     // angular degrees
	WindSpeed        *float64 `json:"wind_speed,omitempty"`         // meters per second
	CloudCover       *int     `json:"cloud_cover,omitempty"`        // coverage code, see package doc
	PrecipOneHour    *float64 `json:"precip_one_hour,omitempty"`    // millimeters
	PrecipSixHour    *float64 `json:"precip_six_hour,omitempty"`    // millimeters
}

// ParseRecord parses one ISD-Lite observation row. The row must contain
// exactly twelve integer fields; anything else is a format error, never
// silently skipped.
func ParseRecord(stationID, row string) (Record, error) {
	fields := strings.Fields(row)
	if len(fields) != recordFieldCount {
		return Record{}, fmt.Errorf("parse record: expected %d fields, got %d", recordFieldCount, len(fields))
	}

	raw := make([]int, recordFieldCount)
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return Record{}, fmt.Errorf("parse record field %d: %w", i+1, err)
		}
		raw[i] = v
	}

	return Record{
		StationID:        stationID,
		Year:             raw[0],
		Month:            raw[1],
		Day:              raw[2],
		Hour:             raw[3],
		AirTemperature:   tenths(raw[4]),
		DewPoint:         tenths(raw[5]),
		SeaLevelPressure: tenths(raw[6]),
		WindDirection:    whole(raw[7]),
		WindSpeed:        tenths(raw[8]),
		CloudCover:       whole(raw[9]),
		PrecipOneHour:    tenths(raw[10]),
		PrecipSixHour:    tenths(raw[11]),
	}, nil
}

// FormatRecord renders a Record as an ISD-Lite observation row, restoring
// the missing-value sentinel and tenths scaling.
func FormatRecord(r Record) string {
	return fmt.Sprintf("%04d %2d %2d %2d %6d %6d %6d %6d %6d %6d %6d %6d",
		r.Year, r.Month, r.Day, r.Hour,
		rawTenths(r.AirTemperature),
		rawTenths(r.DewPoint),
		rawTenths(r.SeaLevelPressure),
		rawWhole(r.WindDirection),
		rawTenths(r.WindSpeed),
		rawWhole(r.CloudCover),
		rawTenths(r.PrecipOneHour),
		rawTenths(r.PrecipSixHour),
	)
}

// tenths maps a tenths-scaled raw integer to its physical value, or nil
// for the missing sentinel.
func tenths(v int) *float64 {
	if v == missingValue {
		return nil
	}
	f := float64(v) / 10
	return &f
}

// whole maps an unscaled raw integer to a value, or nil for the missing sentinel.
func whole(v int) *int {
	if v == missingValue {
		return nil
	}
	return &v
}

func rawTenths(v *float64) int {
	if v == nil {
		return missingValue
	}
	return int(math.Round(*v * 10))
}

func rawWhole(v *int) int {
	if v == nil {
		return missingValue
	}
	return *v
}
