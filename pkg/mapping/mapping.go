// Package mapping converts between domain models and API wire types.
package mapping

import (
	"fmt"
	"strings"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/engine"
	"github.com/chris/marketplace-settlements/pkg/models"
)

// ToDomainRequest converts an API NewSettlement into an engine Request,
// normalizing and validating the type and priority enums.
func ToDomainRequest(in *api.NewSettlement) (engine.Request, error) {
	settlementType, err := parseType(in.Type)
	if err != nil {
		return engine.Request{}, err
	}
	priority, err := parsePriority(in.Priority)
	if err != nil {
		return engine.Request{}, err
	}
	return engine.Request{
		TransactionId: in.TransactionId,
		OrderId:       in.OrderId,
		PayeeId:       in.PayeeId,
		Amount:        in.Amount,
		Currency:      strings.ToUpper(in.Currency),
		Type:          settlementType,
		Priority:      priority,
		Metadata:      in.Metadata,
	}, nil
}

func parseType(s string) (models.SettlementType, error) {
	switch models.SettlementType(strings.ToUpper(s)) {
	case models.TypeInstant:
		return models.TypeInstant, nil
	case models.TypeStandard:
		return models.TypeStandard, nil
	case models.TypeExpress:
		return models.TypeExpress, nil
	}
	return "", fmt.Errorf("unknown settlement type %q", s)
}

func parsePriority(s string) (models.SettlementPriority, error) {
	if s == "" {
		return models.PriorityMedium, nil
	}
	switch models.SettlementPriority(strings.ToUpper(s)) {
	case models.PriorityHigh:
		return models.PriorityHigh, nil
	case models.PriorityMedium:
		return models.PriorityMedium, nil
	case models.PriorityLow:
		return models.PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ToApiAccepted converts an engine Acceptance to its API representation.
func ToApiAccepted(acc *engine.Acceptance) *api.SettlementAccepted {
	return &api.SettlementAccepted{
		SettlementId:            acc.SettlementId,
		Status:                  string(acc.Status),
		EstimatedCompletionTime: acc.EstimatedCompletionTime,
		Route:                   toApiRoute(&acc.Route),
	}
}

func toApiRoute(route *models.Route) api.Route {
	out := api.Route{
		Id:              route.Id,
		ProviderId:      route.Primary.Id,
		ProviderName:    route.Primary.Name,
		EstimatedTimeMs: route.EstimatedTime.Milliseconds(),
		TotalFee:        route.TotalFee,
	}
	for _, fb := range route.Fallbacks {
		out.FallbackProviderIds = append(out.FallbackProviderIds, fb.Id)
	}
	return out
}

// ToApiSettlement converts a domain SettlementRecord to an API Settlement.
func ToApiSettlement(rec *models.SettlementRecord) *api.Settlement {
	return &api.Settlement{
		Id:                  rec.Id,
		TransactionId:       rec.TransactionId,
		OrderId:             rec.OrderId,
		PayeeId:             rec.PayeeId,
		Amount:              rec.Amount,
		Currency:            rec.Currency,
		Type:                string(rec.Type),
		Priority:            string(rec.Priority),
		ProviderId:          rec.ProviderId,
		Fee:                 rec.Fee,
		Status:              api.SettlementStatus(rec.Status),
		FailureReason:       rec.FailureReason,
		RequestedAt:         rec.RequestedAt,
		ProcessingStartedAt: rec.ProcessingStartedAt,
		CompletedAt:         rec.CompletedAt,
		FailedAt:            rec.FailedAt,
		CancelledAt:         rec.CancelledAt,
		Metadata:            rec.Metadata,
	}
}

// ToApiLiquidityPool converts a domain pool snapshot to its API representation.
func ToApiLiquidityPool(pool *models.LiquidityPool) *api.LiquidityPool {
	return &api.LiquidityPool{
		Currency:       pool.Currency,
		Total:          pool.Total,
		Available:      pool.Available,
		Reserved:       pool.Reserved,
		MinimumReserve: pool.MinimumReserve,
		LastUpdated:    pool.LastUpdated,
	}
}

// ToApiProvider converts a domain Provider to its API representation.
func ToApiProvider(p *models.Provider) *api.Provider {
	return &api.Provider{
		Id:                p.Id,
		Name:              p.Name,
		Currencies:        p.Currencies,
		MaxAmount:         p.MaxAmount,
		FeeRate:           p.FeeRate.String(),
		ProcessingTimeMs:  p.ProcessingTime.Milliseconds(),
		Reliability:       p.Reliability,
		AvailableCapacity: p.AvailableCapacity,
		Active:            p.Active,
	}
}

// ToApiAnalytics converts an engine Analytics projection to its API representation.
func ToApiAnalytics(a *engine.Analytics) *api.Analytics {
	out := &api.Analytics{
		WindowSeconds:           int64(a.Window.Seconds()),
		Count:                   a.Count,
		TotalAmount:             a.TotalAmount,
		TotalFees:               a.TotalFees,
		AverageProcessingTimeMs: a.AverageProcessingTime.Milliseconds(),
		SuccessRate:             a.SuccessRate,
		QueueDepth:              a.QueueDepth,
	}
	for i := range a.Pools {
		out.Pools = append(out.Pools, *ToApiLiquidityPool(&a.Pools[i]))
	}
	return out
}
