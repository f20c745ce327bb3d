package location

import (
	"math"
	"testing"

	"github.com/randytsao24/letsgobiking/internal/models"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Lyon Part-Dieu to Lyon Perrache, roughly 3.0 km
	got := Haversine(45.7606, 4.8593, 45.7485, 4.8262)
	if got < 2800 || got > 3100 {
		t.Errorf("Haversine = %.0f m, want about 2900-3000 m", got)
	}
}

func TestHaversineSymmetricAndZero(t *testing.T) {
	points := []models.Point{
		{Lat: 45.75, Lon: 4.85},
		{Lat: 45.77, Lon: 4.87},
		{Lat: 43.70, Lon: 7.25},
		{Lat: -33.86, Lon: 151.21},
		{Lat: 0, Lon: 0},
	}

	for _, a := range points {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range points {
			ab, ba := Distance(a, b), Distance(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance(%v,%v)=%v but Distance(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"city", 45.75, 4.85, true},
		{"north pole", 90, 0, true},
		{"south west bound", -90, -180, true},
		{"east bound", 0, 180, true},
		{"lat too high", 90.0001, 0, false},
		{"lat too low", -91, 0, false},
		{"lon too high", 0, 180.5, false},
		{"lon too low", 0, -181, false},
		{"nan", math.NaN(), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidCoordinate(tc.lat, tc.lon); got != tc.want {
				t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	target := models.Point{Lat: 45.75, Lon: 4.85}
	pos := func(p models.Point) models.Point { return p }

	t.Run("empty", func(t *testing.T) {
		if got := Nearest(target, []models.Point{}, pos); got != -1 {
			t.Errorf("Nearest = %d, want -1", got)
		}
	})

	t.Run("closest wins", func(t *testing.T) {
		items := []models.Point{
			{Lat: 45.80, Lon: 4.90},
			{Lat: 45.751, Lon: 4.851},
			{Lat: 45.70, Lon: 4.80},
		}
		if got := Nearest(target, items, pos); got != 1 {
			t.Errorf("Nearest = %d, want 1", got)
		}
	})

	t.Run("tie keeps first", func(t *testing.T) {
		items := []models.Point{
			{Lat: 45.76, Lon: 4.85},
			{Lat: 45.76, Lon: 4.85},
		}
		if got := Nearest(target, items, pos); got != 0 {
			t.Errorf("Nearest = %d, want 0", got)
		}
	})
}
