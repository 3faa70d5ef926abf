package domain

import (
	"context"
	"log/slog"
)

// EnrichStationNames fills in display names for candidate stations that
// have coordinates but no catalog name. If geocoder is nil or a lookup
// fails, the candidate keeps its absent name (graceful degradation).
func EnrichStationNames(ctx context.Context, candidates []Candidate, geocoder Geocoder, logger *slog.Logger) []Candidate {
	if geocoder == nil {
		return candidates
	}

	for i := range candidates {
		station := &candidates[i].Station
		if station.Name != nil || station.Latitude == nil || station.Longitude == nil {
			continue
		}

		result, err := geocoder.ReverseGeocode(ctx, *station.Latitude, *station.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"station_id", station.ID,
				"lat", *station.Latitude,
				"lon", *station.Longitude,
				"error", err,
			)
			continue
		}
		if result.PlaceName != "" {
			name := result.PlaceName
			station.Name = &name
		}
	}
	return candidates
}
