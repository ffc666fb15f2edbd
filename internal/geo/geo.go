// Package geo provides great-circle distance math, the radius filter used by
// listing queries, and the Nominatim geocoding client.
package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// radiusEpsilonKm absorbs floating rounding when comparing a distance to a
// radius threshold.
const radiusEpsilonKm = 0.001

// Default map center (Milan), matching the original client.
const (
	DefaultCenterLat = 45.4642
	DefaultCenterLon = 9.19
)

// HaversineKm returns the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// WithinRadius reports whether a point falls inside radiusKm of the center.
// A finite precomputed distance wins over recomputation; a point with no
// distance and no coordinates is excluded, never included.
func WithinRadius(distanceKm, lat, lon *float64, centerLat, centerLon, radiusKm float64) bool {
	if distanceKm != nil && !math.IsNaN(*distanceKm) && !math.IsInf(*distanceKm, 0) {
		return *distanceKm <= radiusKm+radiusEpsilonKm
	}
	if lat == nil || lon == nil {
		return false
	}
	return HaversineKm(centerLat, centerLon, *lat, *lon) <= radiusKm+radiusEpsilonKm
}
