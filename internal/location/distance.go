package location

import (
	"math"

	"github.com/randytsao24/letsgobiking/internal/models"
)

const earthRadiusMeters = 6371000

// Haversine calculates the distance in meters between two lat/lng points
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Distance is Haversine over two points
func Distance(a, b models.Point) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ValidCoordinate reports whether lat is in [-90, 90] and lon in [-180, 180]
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Nearest returns the index of the item closest to target, or -1 if items is
// empty. Ties keep the first item encountered.
func Nearest[T any](target models.Point, items []T, position func(T) models.Point) int {
	best := -1
	bestDist := math.Inf(1)

	for i, it := range items {
		d := Distance(target, position(it))
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
