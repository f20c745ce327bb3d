package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "letsgobiking",
		"description": "Walk or bike? Itineraries built on live bike-share availability",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":                  "Frontend or API information",
			"GET /api":               "API information",
			"GET /health":            "Health check",
			"GET /itinerary/compute": "Recommend walking or biking between two points",
			"GET /itinerary/suggest": "Address suggestions for a search query",
			"GET /itinerary/ping":    "Itinerary service status",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the /api endpoint for available routes",
	})
}
