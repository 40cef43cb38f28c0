// Package settlements contains the HTTP handlers for the settlement lifecycle.
package settlements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/engine"
	"github.com/chris/marketplace-settlements/pkg/liquidity"
	"github.com/chris/marketplace-settlements/pkg/mapping"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/routing"
	"github.com/chris/marketplace-settlements/pkg/storage"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// DefaultStuckAge is how long a settlement may sit PENDING before the stuck
// listing reports it, unless the caller overrides the threshold.
const DefaultStuckAge = 5 * time.Minute

// Service is the slice of the engine the settlement handlers need.
type Service interface {
	RequestSettlement(ctx context.Context, req engine.Request) (*engine.Acceptance, error)
	GetStatus(ctx context.Context, settlementID string) (*models.SettlementRecord, error)
	Cancel(ctx context.Context, settlementID, reason string) error
	ListByPayee(ctx context.Context, payeeID string) ([]models.SettlementRecord, error)
	ListStuck(ctx context.Context, maxAge time.Duration) ([]models.SettlementRecord, error)
}

// SettlementsHandler holds the dependencies for settlement-related handlers.
type SettlementsHandler struct {
	Service Service
	Logger  *slog.Logger
}

// NewSettlementsHandler creates a new SettlementsHandler.
func NewSettlementsHandler(service Service, logger *slog.Logger) *SettlementsHandler {
	return &SettlementsHandler{Service: service, Logger: logger}
}

// RequestSettlement handles the logic for scheduling a new settlement.
func (h *SettlementsHandler) RequestSettlement(w http.ResponseWriter, r *http.Request) {
	var newSettlement api.NewSettlement
	if err := json.NewDecoder(r.Body).Decode(&newSettlement); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req, err := mapping.ToDomainRequest(&newSettlement)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	acceptance, err := h.Service.RequestSettlement(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrRouteNotFound):
			http.Error(w, "No provider can route this settlement", http.StatusUnprocessableEntity)
		case errors.Is(err, liquidity.ErrInsufficientLiquidity):
			http.Error(w, "Insufficient liquidity for this settlement", http.StatusUnprocessableEntity)
		default:
			h.Logger.Error("failed to request settlement", "error", err)
			http.Error(w, fmt.Sprintf("Failed to request settlement: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAccepted(acceptance)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetSettlementById handles the logic for retrieving a settlement by its ID.
func (h *SettlementsHandler) GetSettlementById(w http.ResponseWriter, r *http.Request, settlementId openapi_types.UUID) {
	record, err := h.Service.GetStatus(r.Context(), settlementId.String())
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			http.Error(w, "Settlement not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("failed to retrieve settlement", "settlement_id", settlementId.String(), "error", err)
		http.Error(w, fmt.Sprintf("Failed to retrieve settlement: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiSettlement(record)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// CancelSettlementById handles the logic for cancelling a settlement.
func (h *SettlementsHandler) CancelSettlementById(w http.ResponseWriter, r *http.Request, settlementId openapi_types.UUID) {
	var cancel api.CancelSettlement
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cancel); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}
	if cancel.Reason == "" {
		cancel.Reason = "cancelled by caller"
	}

	err := h.Service.Cancel(r.Context(), settlementId.String(), cancel.Reason)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrRecordNotFound):
			http.Error(w, "Settlement not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrInvalidStateTransition):
			http.Error(w, "Settlement is no longer cancellable", http.StatusConflict)
		default:
			h.Logger.Error("failed to cancel settlement", "settlement_id", settlementId.String(), "error", err)
			http.Error(w, fmt.Sprintf("Failed to cancel settlement: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListStuckSettlements lists settlements that have sat PENDING longer than the
// max_age_seconds query parameter, for operators chasing a stalled queue.
func (h *SettlementsHandler) ListStuckSettlements(w http.ResponseWriter, r *http.Request) {
	maxAge := DefaultStuckAge
	if raw := r.URL.Query().Get("max_age_seconds"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds <= 0 {
			http.Error(w, "max_age_seconds must be a positive integer", http.StatusBadRequest)
			return
		}
		maxAge = time.Duration(seconds) * time.Second
	}

	records, err := h.Service.ListStuck(r.Context(), maxAge)
	if err != nil {
		h.Logger.Error("failed to list stuck settlements", "error", err)
		http.Error(w, fmt.Sprintf("Failed to list stuck settlements: %v", err), http.StatusInternalServerError)
		return
	}

	out := make([]api.Settlement, 0, len(records))
	for i := range records {
		out = append(out, *mapping.ToApiSettlement(&records[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListSettlementsByPayeeId handles the logic for listing a payee's settlements.
func (h *SettlementsHandler) ListSettlementsByPayeeId(w http.ResponseWriter, r *http.Request, payeeId string) {
	records, err := h.Service.ListByPayee(r.Context(), payeeId)
	if err != nil {
		h.Logger.Error("failed to list settlements", "payee_id", payeeId, "error", err)
		http.Error(w, fmt.Sprintf("Failed to list settlements: %v", err), http.StatusInternalServerError)
		return
	}

	out := make([]api.Settlement, 0, len(records))
	for i := range records {
		out = append(out, *mapping.ToApiSettlement(&records[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
