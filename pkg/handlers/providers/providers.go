// Package providers contains the HTTP handler for the provider catalog.
package providers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/mapping"
	"github.com/chris/marketplace-settlements/pkg/models"
)

// Service is the slice of the engine the provider handler needs.
type Service interface {
	Providers() []models.Provider
}

// ProvidersHandler holds the dependencies for the provider catalog handler.
type ProvidersHandler struct {
	Service Service
}

// NewProvidersHandler creates a new ProvidersHandler.
func NewProvidersHandler(service Service) *ProvidersHandler {
	return &ProvidersHandler{Service: service}
}

// ListProviders returns the full provider catalog snapshot, including inactive
// entries so operators can see what is disabled.
func (h *ProvidersHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	catalog := h.Service.Providers()

	out := make([]api.Provider, 0, len(catalog))
	for i := range catalog {
		out = append(out, *mapping.ToApiProvider(&catalog[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
