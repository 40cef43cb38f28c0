// Package routing picks a disbursement provider for a settlement request.
package routing

import (
	"errors"
	"sort"

	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/registry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrRouteNotFound is returned when no active provider matches the request's
// currency and amount. It is rejected before any reservation is made.
var ErrRouteNotFound = errors.New("no eligible settlement route")

// maxFallbacks bounds how many alternates a route carries after the primary.
const maxFallbacks = 2

// Selector ranks eligible providers into a primary plus fallback chain.
type Selector struct {
	registry *registry.Registry
}

// NewSelector creates a Selector backed by a provider registry.
func NewSelector(r *registry.Registry) *Selector {
	return &Selector{registry: r}
}

// FindOptimalRoute filters the catalog for the request and ranks the survivors:
// high-priority requests sort by expected processing time, everything else by
// fee. The sort is stable, so identical inputs always yield the same primary.
// Fee and time estimates come from the primary only; fallbacks are informational.
func (s *Selector) FindOptimalRoute(currency string, amount int64, priority models.SettlementPriority) (*models.Route, error) {
	eligible := s.registry.ListEligible(currency, amount)
	if len(eligible) == 0 {
		return nil, ErrRouteNotFound
	}

	if priority == models.PriorityHigh {
		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].ProcessingTime < eligible[j].ProcessingTime
		})
	} else {
		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].FeeRate.LessThan(eligible[j].FeeRate)
		})
	}

	primary := eligible[0]
	fallbacks := eligible[1:]
	if len(fallbacks) > maxFallbacks {
		fallbacks = fallbacks[:maxFallbacks]
	}

	return &models.Route{
		Id:            uuid.New().String(),
		Primary:       primary,
		Fallbacks:     append([]models.Provider(nil), fallbacks...),
		Currency:      currency,
		Amount:        amount,
		EstimatedTime: primary.ProcessingTime,
		TotalFee:      FeeFor(primary, amount),
	}, nil
}

// FeeFor computes the provider's fee for an amount in minor units, rounded to the
// nearest whole unit.
func FeeFor(p models.Provider, amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(p.FeeRate).Round(0).IntPart()
}
