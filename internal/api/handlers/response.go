package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/randytsao24/letsgobiking/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// statusFor maps an error kind to the HTTP status returned to clients
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidCoordinate:
		return http.StatusBadRequest
	case models.KindLocationNotResolved:
		return http.StatusUnprocessableEntity
	case models.KindStationFetchFailed, models.KindRouteUnavailable, models.KindUpstreamUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a classified error. Unexpected failures hide their cause.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = models.NewError(models.KindUpstreamUnreachable, "request timed out waiting for upstream services", err)
	}

	kind := models.KindOf(err)
	if kind == "" {
		kind = models.KindUnexpected
	}
	status := statusFor(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		message = "internal error"
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   kind,
		"message": message,
	})
}
