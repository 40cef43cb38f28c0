// Package handlers assembles the HTTP surface of the settlement service.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chris/marketplace-settlements/pkg/handlers/analytics"
	"github.com/chris/marketplace-settlements/pkg/handlers/liquidity"
	"github.com/chris/marketplace-settlements/pkg/handlers/providers"
	"github.com/chris/marketplace-settlements/pkg/handlers/settlements"
	appmiddleware "github.com/chris/marketplace-settlements/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service is the full engine surface the router depends on.
type Service interface {
	settlements.Service
	liquidity.Service
	analytics.Service
	providers.Service
}

// NewRouter builds the chi router with all handlers mounted.
func NewRouter(service Service, logger *slog.Logger) chi.Router {
	settlementsHandler := settlements.NewSettlementsHandler(service, logger)
	liquidityHandler := liquidity.NewLiquidityHandler(service, logger)
	analyticsHandler := analytics.NewAnalyticsHandler(service, logger)
	providersHandler := providers.NewProvidersHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz)

	r.Post("/settlements", settlementsHandler.RequestSettlement)
	r.Get("/settlements/stuck", settlementsHandler.ListStuckSettlements)
	r.Get("/settlements/{settlementId}", withSettlementId(settlementsHandler.GetSettlementById))
	r.Post("/settlements/{settlementId}/cancel", withSettlementId(settlementsHandler.CancelSettlementById))
	r.Get("/payees/{payeeId}/settlements", func(w http.ResponseWriter, r *http.Request) {
		settlementsHandler.ListSettlementsByPayeeId(w, r, chi.URLParam(r, "payeeId"))
	})

	r.Get("/liquidity", liquidityHandler.GetLiquidityStatus)
	r.Post("/liquidity", liquidityHandler.AddLiquidity)

	r.Get("/analytics", analyticsHandler.GetAnalytics)
	r.Get("/providers", providersHandler.ListProviders)

	return r
}

// withSettlementId parses the settlementId path parameter as a UUID before
// invoking the handler.
func withSettlementId(next func(http.ResponseWriter, *http.Request, openapi_types.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "settlementId"))
		if err != nil {
			http.Error(w, "Invalid settlement ID", http.StatusBadRequest)
			return
		}
		next(w, r, id)
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
