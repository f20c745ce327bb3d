package itinerary

import (
	"testing"

	"github.com/randytsao24/letsgobiking/internal/models"
)

func TestSelectStationsSkipsEmptyOrigins(t *testing.T) {
	// the zero-bike station is the closest but never eligible
	originStations := []models.Station{
		{Name: "ZERO", AvailableBikes: 0, Capacity: 10, Lat: 45.7501, Lon: 4.8501},
		{Name: "THREE", AvailableBikes: 3, Capacity: 10, Lat: 45.7550, Lon: 4.8550},
		{Name: "ONE", AvailableBikes: 1, Capacity: 10, Lat: 45.7520, Lon: 4.8520},
	}
	destStations := []models.Station{
		{Name: "DOCK", AvailableBikes: 1, Capacity: 10, Lat: 45.77, Lon: 4.87},
	}

	o, d, found := selectStations(origin, destination, originStations, destStations)
	if !found {
		t.Fatal("expected stations")
	}
	if o.Name != "ONE" {
		t.Errorf("origin station = %q, want ONE", o.Name)
	}
	if d.Name != "DOCK" {
		t.Errorf("destination station = %q, want DOCK", d.Name)
	}
}

func TestSelectStationsDestinationNeedsFreeDock(t *testing.T) {
	originStations := []models.Station{{Name: "O", AvailableBikes: 2, Capacity: 5, Lat: 45.75, Lon: 4.85}}
	destStations := []models.Station{
		{Name: "FULL", AvailableBikes: 8, Capacity: 8, Lat: 45.77, Lon: 4.87},
		{Name: "FREE", AvailableBikes: 7, Capacity: 8, Lat: 45.78, Lon: 4.88},
	}

	_, d, found := selectStations(origin, destination, originStations, destStations)
	if !found || d.Name != "FREE" {
		t.Errorf("destination = %+v found = %v, want FREE", d, found)
	}
}

func TestSelectStationsTieKeepsFirst(t *testing.T) {
	stations := []models.Station{
		{Name: "FIRST", AvailableBikes: 1, Capacity: 5, Lat: 45.76, Lon: 4.85},
		{Name: "SECOND", AvailableBikes: 1, Capacity: 5, Lat: 45.76, Lon: 4.85},
	}

	o, d, found := selectStations(origin, origin, stations, stations)
	if !found || o.Name != "FIRST" || d.Name != "FIRST" {
		t.Errorf("got %+v / %+v, want FIRST for both", o, d)
	}
}

func TestSelectStationsReturnsCopies(t *testing.T) {
	stations := []models.Station{{Name: "A", AvailableBikes: 1, Capacity: 5, Lat: 45.75, Lon: 4.85}}

	o, _, _ := selectStations(origin, destination, stations, stations)
	o.Name = "changed"
	if stations[0].Name != "A" {
		t.Error("selected station must not alias the provider snapshot")
	}
}

func TestDecide(t *testing.T) {
	walk := models.RouteLeg{Profile: models.ProfileWalk, DurationSeconds: 1200, DistanceMeters: 1500}
	bikeLegs := func(total float64) []models.RouteLeg {
		return []models.RouteLeg{
			{Profile: models.ProfileWalk, DurationSeconds: total / 4, DistanceMeters: 100},
			{Profile: models.ProfileBike, DurationSeconds: total / 2, DistanceMeters: 2000},
			{Profile: models.ProfileWalk, DurationSeconds: total / 4, DistanceMeters: 100},
		}
	}
	st := &models.Station{Name: "S", AvailableBikes: 1, Capacity: 2}

	tests := []struct {
		name        string
		plan        legPlan
		useStations bool
		allowBike   bool
		want        models.Mode
		legs        int
	}{
		{"tie favors bike", legPlan{walk: walk, bike: bikeLegs(1200)}, true, true, models.ModeBike, 3},
		{"bike faster", legPlan{walk: walk, bike: bikeLegs(600)}, true, true, models.ModeBike, 3},
		{"walk faster", legPlan{walk: walk, bike: bikeLegs(1201)}, true, true, models.ModeWalk, 1},
		{"no stations", legPlan{walk: walk}, false, true, models.ModeWalk, 1},
		{"bike not allowed", legPlan{walk: walk}, false, false, models.ModeWalk, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := decide(tc.plan, st, st, tc.useStations, tc.allowBike)
			if d.Mode != tc.want {
				t.Errorf("mode = %q, want %q", d.Mode, tc.want)
			}
			if len(d.Legs) != tc.legs {
				t.Errorf("legs = %d, want %d", len(d.Legs), tc.legs)
			}
			hasStations := d.OriginStation != nil && d.DestinationStation != nil
			if hasStations != (d.Mode == models.ModeBike) {
				t.Errorf("stations present = %v for mode %q", hasStations, d.Mode)
			}
			if d.Rationale == "" {
				t.Error("rationale must not be empty")
			}
		})
	}
}
