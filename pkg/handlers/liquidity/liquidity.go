// Package liquidity contains the HTTP handlers for pool inspection and top-ups.
package liquidity

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/mapping"
	"github.com/chris/marketplace-settlements/pkg/models"
)

// Service is the slice of the engine the liquidity handlers need.
type Service interface {
	LiquidityStatus() []models.LiquidityPool
	AddLiquidity(currency string, amount int64) error
}

// LiquidityHandler holds the dependencies for liquidity-related handlers.
type LiquidityHandler struct {
	Service Service
	Logger  *slog.Logger
}

// NewLiquidityHandler creates a new LiquidityHandler.
func NewLiquidityHandler(service Service, logger *slog.Logger) *LiquidityHandler {
	return &LiquidityHandler{Service: service, Logger: logger}
}

// GetLiquidityStatus returns a snapshot of every currency pool.
func (h *LiquidityHandler) GetLiquidityStatus(w http.ResponseWriter, r *http.Request) {
	pools := h.Service.LiquidityStatus()

	out := make([]api.LiquidityPool, 0, len(pools))
	for i := range pools {
		out = append(out, *mapping.ToApiLiquidityPool(&pools[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// AddLiquidity tops up a currency pool, creating it if it does not exist.
func (h *LiquidityHandler) AddLiquidity(w http.ResponseWriter, r *http.Request) {
	var req api.AddLiquidity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		http.Error(w, "Currency is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.AddLiquidity(req.Currency, req.Amount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to add liquidity: %v", err), http.StatusBadRequest)
		return
	}

	h.Logger.Info("liquidity added", "currency", req.Currency, "amount", req.Amount)
	w.WriteHeader(http.StatusNoContent)
}
