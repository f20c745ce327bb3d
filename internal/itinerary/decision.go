package itinerary

import (
	"fmt"

	"github.com/randytsao24/letsgobiking/internal/location"
	"github.com/randytsao24/letsgobiking/internal/models"
)

// eligibleOrigins keeps stations with at least one bike to take
func eligibleOrigins(stations []models.Station) []models.Station {
	var out []models.Station
	for _, s := range stations {
		if s.AvailableBikes > 0 {
			out = append(out, s)
		}
	}
	return out
}

// eligibleDestinations keeps stations with at least one free dock
func eligibleDestinations(stations []models.Station) []models.Station {
	var out []models.Station
	for _, s := range stations {
		if s.FreeDocks() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// selectStations picks the nearest eligible station to each endpoint.
// found is false when either side has no eligible station.
func selectStations(origin, destination models.Point, originStations, destStations []models.Station) (*models.Station, *models.Station, bool) {
	origins := eligibleOrigins(originStations)
	dests := eligibleDestinations(destStations)
	if len(origins) == 0 || len(dests) == 0 {
		return nil, nil, false
	}

	oi := location.Nearest(origin, origins, models.Station.Point)
	di := location.Nearest(destination, dests, models.Station.Point)

	originStation := origins[oi]
	destStation := dests[di]
	return &originStation, &destStation, true
}

// decide applies the cost comparison. Bike wins ties.
func decide(plan legPlan, originStation, destStation *models.Station, useStations, allowBike bool) *models.ItineraryDecision {
	walkSeconds, walkMeters := plan.walk.DurationSeconds, plan.walk.DistanceMeters

	if !useStations {
		reason := "No bike station with an available bike near the origin and a free dock near the destination"
		if !allowBike {
			reason = "Bike not requested"
		}
		return &models.ItineraryDecision{
			Mode: models.ModeWalk,
			Legs: []models.RouteLeg{plan.walk},
			Rationale: fmt.Sprintf("%s; walking takes %.1f minutes over %.0f meters.",
				reason, minutes(walkSeconds), walkMeters),
		}
	}

	bikeSeconds, bikeMeters := plan.bikeSeconds(), plan.bikeMeters()
	comparison := &models.Comparison{
		WalkSeconds: walkSeconds,
		WalkMeters:  walkMeters,
		BikeSeconds: bikeSeconds,
		BikeMeters:  bikeMeters,
	}

	if walkSeconds < bikeSeconds {
		return &models.ItineraryDecision{
			Mode:       models.ModeWalk,
			Legs:       []models.RouteLeg{plan.walk},
			Comparison: comparison,
			Rationale: fmt.Sprintf("Walking is better with a total time of %.1f minutes and a distance of %.0f meters, compared to a bike time of %.1f minutes and a bike distance of %.0f meters.",
				minutes(walkSeconds), walkMeters, minutes(bikeSeconds), bikeMeters),
		}
	}

	return &models.ItineraryDecision{
		Mode:               models.ModeBike,
		OriginStation:      originStation,
		DestinationStation: destStation,
		Legs:               plan.bike,
		Comparison:         comparison,
		Rationale: fmt.Sprintf("Bike is better with a total time of %.1f minutes and a bike distance of %.0f meters, compared to a walking time of %.1f minutes and a walking distance of %.0f meters.",
			minutes(bikeSeconds), bikeMeters, minutes(walkSeconds), walkMeters),
	}
}

func minutes(seconds float64) float64 {
	return seconds / 60
}
