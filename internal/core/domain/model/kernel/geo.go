package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// GeoPoint is a value object for a WGS84 coordinate pair.
// Used for a delivery agent's last reported position and for the location
// stamped on pickup/delivery tracking events. The zero value (0,0) is treated
// as "no position reported" rather than a real fix.
type GeoPoint struct {
	lat float64
	lng float64
}

// NewGeoPoint validates and creates a coordinate pair.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("latitude",
			fmt.Errorf("%f is outside [-90, 90]", lat))
	}
	if lng < -180 || lng > 180 {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("longitude",
			fmt.Errorf("%f is outside [-180, 180]", lng))
	}

	return GeoPoint{lat: lat, lng: lng}, nil
}

// Lat returns the latitude.
func (g GeoPoint) Lat() float64 {
	return g.lat
}

// Lng returns the longitude.
func (g GeoPoint) Lng() float64 {
	return g.lng
}

// IsZero reports whether no position has been set.
func (g GeoPoint) IsZero() bool {
	return g.lat == 0 && g.lng == 0
}

// String implements fmt.Stringer.
func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.lat, g.lng)
}
