package handlers

import (
	"context"

	"github.com/randytsao24/letsgobiking/internal/models"
)

// ItineraryComputer abstracts the itinerary engine for testability.
type ItineraryComputer interface {
	ComputeItinerary(ctx context.Context, originLat, originLon, destLat, destLon float64, allowBike bool) (*models.ItineraryDecision, error)
}

// AddressSearcher abstracts forward geocoding for the search box.
type AddressSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.Suggestion, error)
}
