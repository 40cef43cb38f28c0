// Package engine ties the provider registry, liquidity pools, route selector,
// queue, and worker together into the settlement service.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/marketplace-settlements/pkg/events"
	"github.com/chris/marketplace-settlements/pkg/liquidity"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/provider"
	"github.com/chris/marketplace-settlements/pkg/queue"
	"github.com/chris/marketplace-settlements/pkg/registry"
	"github.com/chris/marketplace-settlements/pkg/routing"
	"github.com/chris/marketplace-settlements/pkg/storage"
	"github.com/google/uuid"
)

// Config holds the engine's tunables.
type Config struct {
	// IdleInterval is how long the worker sleeps when the queue is empty and no
	// wake signal arrives.
	IdleInterval time.Duration

	// SubmitTimeout bounds each provider call so a stalled transfer fails the
	// settlement instead of blocking the worker forever.
	SubmitTimeout time.Duration
}

func (c *Config) withDefaults() Config {
	out := Config{IdleInterval: 100 * time.Millisecond, SubmitTimeout: 30 * time.Second}
	if c == nil {
		return out
	}
	if c.IdleInterval > 0 {
		out.IdleInterval = c.IdleInterval
	}
	if c.SubmitTimeout > 0 {
		out.SubmitTimeout = c.SubmitTimeout
	}
	return out
}

// Request is a settlement request from the marketplace.
type Request struct {
	TransactionId string
	OrderId       string
	PayeeId       string
	Amount        int64
	Currency      string
	Type          models.SettlementType
	Priority      models.SettlementPriority
	Metadata      map[string]string
}

// Acceptance is returned when a request has been reserved and queued.
type Acceptance struct {
	SettlementId            string
	Route                   models.Route
	EstimatedCompletionTime time.Time
	Status                  models.SettlementStatus
}

// Engine is the settlement service. Construct one per process with New, then
// Start it; there is no package-level state.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	pools     *liquidity.Manager
	registry  *registry.Registry
	selector  *routing.Selector
	queue     *queue.Queue
	store     storage.RecordStore
	publisher events.Publisher
	adapters  map[string]provider.Adapter

	mu      sync.Mutex
	started bool
	stop    context.CancelFunc
	done    chan struct{}
}

// New wires an Engine from its collaborators.
func New(cfg *Config, logger *slog.Logger, pools *liquidity.Manager, reg *registry.Registry,
	store storage.RecordStore, publisher events.Publisher, adapters map[string]provider.Adapter) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	return &Engine{
		cfg:       cfg.withDefaults(),
		logger:    logger,
		pools:     pools,
		registry:  reg,
		selector:  routing.NewSelector(reg),
		queue:     queue.New(),
		store:     store,
		publisher: publisher,
		adapters:  adapters,
	}
}

// Start recovers interrupted settlements from the record store and launches the
// worker. It is an error to start an already-running engine.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return errors.New("engine already started")
	}

	if err := e.recover(ctx); err != nil {
		return fmt.Errorf("failed to recover interrupted settlements: %w", err)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	e.stop = cancel
	e.done = make(chan struct{})
	e.started = true
	go e.runWorker(workerCtx)

	e.logger.Info("settlement engine started", "queue_depth", e.queue.Depth())
	return nil
}

// Shutdown stops the worker and waits for the in-flight settlement, if any, to
// finish. Queued settlements stay PENDING in the store and are recovered on the
// next start.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = false
	stop, done := e.stop, e.done
	e.mu.Unlock()

	stop()
	select {
	case <-done:
		e.logger.Info("settlement engine stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for worker to stop: %w", ctx.Err())
	}
}

// RequestSettlement validates a request against the provider catalog and the
// liquidity pools, reserves capacity, persists the record, and queues it for the
// worker. Validation failures are synchronous and leave no side effects.
func (e *Engine) RequestSettlement(ctx context.Context, req Request) (*Acceptance, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("settlement amount must be positive, got %d", req.Amount)
	}

	route, err := e.selector.FindOptimalRoute(req.Currency, req.Amount, req.Priority)
	if err != nil {
		return nil, err
	}

	if err := e.pools.Reserve(req.Currency, req.Amount); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.SettlementRecord{
		Id:            uuid.New().String(),
		TransactionId: req.TransactionId,
		OrderId:       req.OrderId,
		PayeeId:       req.PayeeId,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Type:          req.Type,
		Priority:      req.Priority,
		RouteId:       route.Id,
		ProviderId:    route.Primary.Id,
		Fee:           route.TotalFee,
		Status:        models.PENDING,
		RequestedAt:   now,
		UpdatedAt:     now,
		Metadata:      req.Metadata,
	}

	if err := e.store.CreateRecord(ctx, rec); err != nil {
		// The reservation must not outlive a record that was never persisted.
		if relErr := e.pools.Release(req.Currency, req.Amount); relErr != nil {
			e.logger.Error("failed to release reservation after create failure",
				"settlement_id", rec.Id, "error", relErr)
		}
		return nil, fmt.Errorf("failed to persist settlement record: %w", err)
	}

	e.queue.Enqueue(queue.Item{SettlementID: rec.Id, Priority: rec.Priority})
	e.publish(ctx, events.FromRecord(events.SettlementInitiated, rec))

	e.logger.Info("settlement queued",
		"settlement_id", rec.Id,
		"payee_id", rec.PayeeId,
		"amount", rec.Amount,
		"currency", rec.Currency,
		"provider_id", rec.ProviderId,
		"priority", rec.Priority,
	)

	return &Acceptance{
		SettlementId:            rec.Id,
		Route:                   *route,
		EstimatedCompletionTime: now.Add(route.EstimatedTime),
		Status:                  models.PENDING,
	}, nil
}

// Cancel moves a non-terminal settlement to CANCELLED, releases its reservation,
// and removes it from the queue if it has not been dequeued yet. A settlement
// whose provider call is already in flight cannot be interrupted; whichever
// terminal transition lands first wins and performs the single release.
func (e *Engine) Cancel(ctx context.Context, settlementID, reason string) error {
	var rec *models.SettlementRecord
	for attempt := 0; ; attempt++ {
		var err error
		rec, err = e.store.GetRecord(ctx, settlementID)
		if err != nil {
			return err
		}
		if rec.Status.Terminal() {
			return fmt.Errorf("settlement %s is already %s: %w",
				settlementID, rec.Status, storage.ErrInvalidStateTransition)
		}

		err = e.store.TransitionState(ctx, settlementID, rec.Status, models.CANCELLED, reason)
		if err == nil {
			break
		}
		// A read of PENDING can lose to the worker's claim; the settlement is
		// then PROCESSING and still cancellable, so re-read the status once.
		if errors.Is(err, storage.ErrInvalidStateTransition) && attempt == 0 {
			continue
		}
		return err
	}

	e.queue.Remove(settlementID)
	if err := e.pools.Release(rec.Currency, rec.Amount); err != nil {
		e.logger.Error("failed to release reservation on cancellation",
			"settlement_id", settlementID, "error", err)
	}

	rec.Status = models.CANCELLED
	rec.FailureReason = reason
	e.publish(ctx, events.FromRecord(events.SettlementCancelled, rec))

	e.logger.Info("settlement cancelled", "settlement_id", settlementID, "reason", reason)
	return nil
}

// GetStatus returns a snapshot of a settlement record.
func (e *Engine) GetStatus(ctx context.Context, settlementID string) (*models.SettlementRecord, error) {
	return e.store.GetRecord(ctx, settlementID)
}

// ListByPayee returns all settlements for a payee.
func (e *Engine) ListByPayee(ctx context.Context, payeeID string) ([]models.SettlementRecord, error) {
	return e.store.ListRecordsByPayee(ctx, payeeID)
}

// ListStuck returns settlements pending longer than maxAge.
func (e *Engine) ListStuck(ctx context.Context, maxAge time.Duration) ([]models.SettlementRecord, error) {
	return e.store.ListStuckRecords(ctx, maxAge)
}

// LiquidityStatus returns a snapshot of every currency pool.
func (e *Engine) LiquidityStatus() []models.LiquidityPool {
	return e.pools.Snapshot()
}

// AddLiquidity is the operator entry point for topping up a pool.
func (e *Engine) AddLiquidity(currency string, amount int64) error {
	if err := e.pools.AddLiquidity(currency, amount); err != nil {
		return err
	}
	e.logger.Info("liquidity added", "currency", currency, "amount", amount)
	return nil
}

// Providers returns a snapshot of the provider catalog.
func (e *Engine) Providers() []models.Provider {
	return e.registry.Snapshot()
}

// QueueDepth returns the number of settlements waiting for the worker.
func (e *Engine) QueueDepth() int {
	return e.queue.Depth()
}

func (e *Engine) publish(ctx context.Context, msg events.Message) {
	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.logger.Error("failed to publish settlement event",
			"type", msg.Type, "settlement_id", msg.SettlementID, "error", err)
	}
}
