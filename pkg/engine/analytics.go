package engine

import (
	"context"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// Analytics is an aggregate view over settlements in a time window, plus the
// engine's live queue and pool state. It is a pure read projection.
type Analytics struct {
	Window                time.Duration
	Count                 int
	TotalAmount           int64
	TotalFees             int64
	AverageProcessingTime time.Duration
	SuccessRate           float64
	QueueDepth            int
	Pools                 []models.LiquidityPool
}

// GetAnalytics aggregates records requested within the window. Success rate is
// completed over completed+failed; processing time averages only settlements
// that actually ran to completion.
func (e *Engine) GetAnalytics(ctx context.Context, window time.Duration) (*Analytics, error) {
	records, err := e.store.ListRecordsSince(ctx, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}

	out := &Analytics{
		Window:     window,
		Count:      len(records),
		QueueDepth: e.queue.Depth(),
		Pools:      e.pools.Snapshot(),
	}

	var completed, failed int
	var totalProcessing time.Duration
	for _, rec := range records {
		out.TotalAmount += rec.Amount
		out.TotalFees += rec.Fee
		switch rec.Status {
		case models.COMPLETED:
			completed++
			if rec.ProcessingStartedAt != nil && rec.CompletedAt != nil {
				totalProcessing += rec.CompletedAt.Sub(*rec.ProcessingStartedAt)
			}
		case models.FAILED:
			failed++
		}
	}

	if completed > 0 {
		out.AverageProcessingTime = totalProcessing / time.Duration(completed)
	}
	if completed+failed > 0 {
		out.SuccessRate = float64(completed) / float64(completed+failed)
	}
	return out, nil
}
