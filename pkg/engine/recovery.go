package engine

import (
	"context"
	"fmt"

	"github.com/chris/marketplace-settlements/pkg/events"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/queue"
)

// recover re-seeds the in-memory queue and pools from the record store after a
// restart. Reservations are process-local, so the pools start fresh:
//   - PENDING records re-run the liquidity check and are re-enqueued; a record
//     that no longer fits is failed rather than left to starve.
//   - PROCESSING records are failed outright. The original provider call's true
//     outcome is unknown after a crash, so they must not be blindly resumed.
func (e *Engine) recover(ctx context.Context) error {
	active, err := e.store.ListActiveRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active settlements: %w", err)
	}

	for i := range active {
		rec := active[i]
		switch rec.Status {
		case models.PENDING:
			if err := e.pools.Reserve(rec.Currency, rec.Amount); err != nil {
				reason := fmt.Sprintf("liquidity no longer available at recovery: %v", err)
				if terr := e.store.TransitionState(ctx, rec.Id, models.PENDING, models.FAILED, reason); terr != nil {
					e.logger.Error("failed to fail unrecoverable settlement", "settlement_id", rec.Id, "error", terr)
					continue
				}
				rec.Status = models.FAILED
				rec.FailureReason = reason
				e.publish(ctx, events.FromRecord(events.SettlementFailed, &rec))
				e.logger.Warn("dropped pending settlement during recovery", "settlement_id", rec.Id, "reason", reason)
				continue
			}
			e.queue.Enqueue(queue.Item{SettlementID: rec.Id, Priority: rec.Priority, EnqueuedAt: rec.RequestedAt})
			e.logger.Info("re-enqueued pending settlement", "settlement_id", rec.Id)

		case models.PROCESSING:
			reason := "worker restarted before the provider outcome was confirmed"
			if terr := e.store.TransitionState(ctx, rec.Id, models.PROCESSING, models.FAILED, reason); terr != nil {
				e.logger.Error("failed to fail interrupted settlement", "settlement_id", rec.Id, "error", terr)
				continue
			}
			rec.Status = models.FAILED
			rec.FailureReason = reason
			e.publish(ctx, events.FromRecord(events.SettlementFailed, &rec))
			e.logger.Warn("failed interrupted settlement during recovery", "settlement_id", rec.Id)
		}
	}

	return nil
}
