package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/randytsao24/letsgobiking/internal/location"
	"github.com/randytsao24/letsgobiking/internal/models"
)

type ItineraryHandler struct {
	itinerary ItineraryComputer
	search    AddressSearcher
}

func NewItineraryHandler(itinerary ItineraryComputer, search AddressSearcher) *ItineraryHandler {
	return &ItineraryHandler{
		itinerary: itinerary,
		search:    search,
	}
}

// Compute returns the recommended itinerary between two coordinates
func (h *ItineraryHandler) Compute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var coords [4]float64
	for i, name := range []string{"originLat", "originLon", "destLat", "destLon"} {
		value, err := parseCoordinate(q.Get(name))
		if err != nil {
			writeError(w, models.NewError(models.KindInvalidCoordinate, "invalid "+name+" parameter", err))
			return
		}
		coords[i] = value
	}

	allowBike := true
	if raw := q.Get("useBike"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, models.NewError(models.KindInvalidCoordinate, "invalid useBike parameter", err))
			return
		}
		allowBike = b
	}

	decision, err := h.itinerary.ComputeItinerary(r.Context(), coords[0], coords[1], coords[2], coords[3], allowBike)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"itinerary": decision,
	})
}

// Suggest returns address suggestions for the search box
func (h *ItineraryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < location.MinSearchLength {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"query":       query,
			"suggestions": []models.Suggestion{},
		})
		return
	}

	suggestions, err := h.search.Search(r.Context(), query, location.DefaultSearchLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"query":       query,
		"suggestions": suggestions,
	})
}

// Ping reports that the itinerary service is up
func (h *ItineraryHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "itinerary service is running",
		"endpoints": []string{
			"GET /itinerary/compute",
			"GET /itinerary/suggest",
			"GET /itinerary/ping",
		},
	})
}

func parseCoordinate(raw string) (float64, error) {
	if raw == "" {
		return 0, errMissingParam
	}
	return strconv.ParseFloat(raw, 64)
}

var errMissingParam = errors.New("parameter is required")
