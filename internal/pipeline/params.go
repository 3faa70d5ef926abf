package pipeline

import (
	"fmt"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Params describes one analysis run: the target point, the selection
// radius around it, and the outlier sensitivity.
type Params struct {
	Latitude  float64 // decimal degrees
	Longitude float64 // decimal degrees
	Elevation float64 // meters above sea level

	// Radius bounds station selection, in meters from the target point.
	Radius float64

	// Delta sets the outlier threshold at mean + Delta standard deviations.
	Delta float64
}

// Validate checks that the parameters describe a usable run.
func (p Params) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Longitude)
	}
	if p.Radius < 0 {
		return fmt.Errorf("radius %v must not be negative", p.Radius)
	}
	if p.Delta <= 0 {
		return fmt.Errorf("delta %v must be positive", p.Delta)
	}
	return nil
}

// Target returns the point the radius is measured from.
func (p Params) Target() domain.Point {
	return domain.Point{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Elevation: p.Elevation,
	}
}
