// Package analytics contains the HTTP handler for the settlement analytics view.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chris/marketplace-settlements/pkg/engine"
	"github.com/chris/marketplace-settlements/pkg/mapping"
)

// DefaultWindow is used when the caller does not specify one.
const DefaultWindow = 24 * time.Hour

// Service is the slice of the engine the analytics handler needs.
type Service interface {
	GetAnalytics(ctx context.Context, window time.Duration) (*engine.Analytics, error)
}

// AnalyticsHandler holds the dependencies for the analytics handler.
type AnalyticsHandler struct {
	Service Service
	Logger  *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service Service, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Service: service, Logger: logger}
}

// GetAnalytics aggregates settlements over a window given in seconds via the
// window_seconds query parameter.
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	window := DefaultWindow
	if raw := r.URL.Query().Get("window_seconds"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds <= 0 {
			http.Error(w, "window_seconds must be a positive integer", http.StatusBadRequest)
			return
		}
		window = time.Duration(seconds) * time.Second
	}

	result, err := h.Service.GetAnalytics(r.Context(), window)
	if err != nil {
		h.Logger.Error("failed to compute analytics", "error", err)
		http.Error(w, fmt.Sprintf("Failed to compute analytics: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAnalytics(result)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
