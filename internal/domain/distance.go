package domain

import "math"

// earthRadiusKm is the Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Point is a position in latitude, longitude, and elevation.
type Point struct {
	Latitude  float64 // degrees, [-90, 90]
	Longitude float64 // degrees, [-180, 180]
	Elevation float64 // meters, may be negative
}

// Distance returns the distance in meters between two points: the
// haversine great-circle surface distance combined with the elevation
// difference as the legs of a right triangle. The combination is an
// approximation, not a true 3-D geodesic, and station selection depends
// on its exact numeric output. NaN inputs propagate as NaN.
func Distance(a, b Point) float64 {
	latDistance := radians(b.Latitude - a.Latitude)
	lonDistance := radians(b.Longitude - a.Longitude)

	h := math.Sin(latDistance/2)*math.Sin(latDistance/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(lonDistance/2)*math.Sin(lonDistance/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	surface := earthRadiusKm * c * 1000 // meters

	height := a.Elevation - b.Elevation

	return math.Sqrt(surface*surface + height*height)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
