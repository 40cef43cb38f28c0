package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/marketplace-settlements/pkg/events"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/queue"
	"github.com/chris/marketplace-settlements/pkg/storage"
)

// runWorker is the single sequential consumer. No two settlements execute
// concurrently; throughput is bounded by average provider latency, a deliberate
// consistency-over-throughput choice.
func (e *Engine) runWorker(ctx context.Context) {
	defer close(e.done)
	for {
		if ctx.Err() != nil {
			return
		}
		item, ok := e.queue.Dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-e.queue.Wake():
			case <-time.After(e.cfg.IdleInterval):
			}
			continue
		}
		e.process(ctx, item)
	}
}

// process drives one settlement through the state machine. Exactly one liquidity
// release happens per settlement no matter which path is taken; the conditional
// state transition is the gate that guarantees it.
func (e *Engine) process(ctx context.Context, item queue.Item) {
	if err := e.store.TransitionState(ctx, item.SettlementID, models.PENDING, models.PROCESSING, ""); err != nil {
		if errors.Is(err, storage.ErrInvalidStateTransition) {
			// Cancelled after dequeue but before we claimed it; the cancel path
			// already released the reservation.
			e.logger.Info("skipping settlement no longer pending", "settlement_id", item.SettlementID)
			return
		}
		e.logger.Error("failed to claim settlement", "settlement_id", item.SettlementID, "error", err)
		return
	}

	rec, err := e.store.GetRecord(ctx, item.SettlementID)
	if err != nil {
		e.logger.Error("failed to load claimed settlement", "settlement_id", item.SettlementID, "error", err)
		return
	}

	adapter, ok := e.adapters[rec.ProviderId]
	if !ok {
		e.finalize(ctx, rec, models.FAILED, fmt.Sprintf("no adapter registered for provider %s", rec.ProviderId))
		return
	}

	submitCtx, cancel := context.WithTimeout(ctx, e.cfg.SubmitTimeout)
	receipt, err := adapter.Submit(submitCtx, rec.Amount, rec.Currency)
	cancel()

	if err != nil {
		e.finalize(ctx, rec, models.FAILED, err.Error())
		return
	}

	e.logger.Info("provider transfer confirmed",
		"settlement_id", rec.Id, "provider_id", rec.ProviderId, "reference", receipt.Reference)
	e.finalize(ctx, rec, models.COMPLETED, "")
}

// finalize performs the terminal transition, the single liquidity release, and
// the lifecycle event for one processed settlement.
func (e *Engine) finalize(ctx context.Context, rec *models.SettlementRecord, to models.SettlementStatus, reason string) {
	// The terminal write must still land when the worker context is being
	// cancelled during shutdown, or the record stays PROCESSING until the next
	// restart's recovery.
	ctx = context.WithoutCancel(ctx)
	if err := e.store.TransitionState(ctx, rec.Id, models.PROCESSING, to, reason); err != nil {
		if errors.Is(err, storage.ErrInvalidStateTransition) {
			// A concurrent cancellation won the race; it owns the release.
			e.logger.Warn("settlement reached a terminal state concurrently",
				"settlement_id", rec.Id, "attempted", to)
			return
		}
		e.logger.Error("failed to finalize settlement", "settlement_id", rec.Id, "error", err)
		return
	}

	if err := e.pools.Release(rec.Currency, rec.Amount); err != nil {
		e.logger.Error("failed to release reservation", "settlement_id", rec.Id, "error", err)
	}

	rec.Status = to
	rec.FailureReason = reason
	switch to {
	case models.COMPLETED:
		if err := e.registry.ConsumeCapacity(rec.ProviderId, rec.Amount); err != nil {
			e.logger.Warn("failed to consume provider capacity",
				"settlement_id", rec.Id, "provider_id", rec.ProviderId, "error", err)
		}
		e.publish(ctx, events.FromRecord(events.SettlementCompleted, rec))
		e.logger.Info("settlement completed", "settlement_id", rec.Id, "amount", rec.Amount, "currency", rec.Currency)
	case models.FAILED:
		e.publish(ctx, events.FromRecord(events.SettlementFailed, rec))
		e.logger.Warn("settlement failed", "settlement_id", rec.Id, "reason", reason)
	}
}
