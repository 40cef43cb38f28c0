// Package memory implements the settlement record store in process memory.
// It backs local development and tests; the DynamoDB store is the durable option.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/storage"
)

// Store implements storage.RecordStore with a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	records map[string]*models.SettlementRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]*models.SettlementRecord)}
}

// Make sure we conform to the interface.
var _ storage.RecordStore = (*Store)(nil)

// CreateRecord persists a new settlement record.
func (s *Store) CreateRecord(ctx context.Context, rec *models.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Id]; ok {
		return fmt.Errorf("settlement record %s already exists", rec.Id)
	}
	cp := *rec
	s.records[rec.Id] = &cp
	return nil
}

// GetRecord retrieves a copy of a settlement record by its ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*models.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

// TransitionState atomically moves a record between statuses. The check and the
// mutation happen under one lock, matching the conditional-write semantics of
// the DynamoDB store.
func (s *Store) TransitionState(ctx context.Context, id string, from, to models.SettlementStatus, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return storage.ErrRecordNotFound
	}
	if rec.Status != from {
		return storage.ErrInvalidStateTransition
	}

	now := time.Now()
	rec.Status = to
	rec.UpdatedAt = now
	if reason != "" {
		rec.FailureReason = reason
	}
	switch to {
	case models.PROCESSING:
		rec.ProcessingStartedAt = &now
	case models.COMPLETED:
		rec.CompletedAt = &now
	case models.FAILED:
		rec.FailedAt = &now
	case models.CANCELLED:
		rec.CancelledAt = &now
	}
	return nil
}

// list copies every record matching the filter, sorted by request time.
func (s *Store) list(match func(*models.SettlementRecord) bool) []models.SettlementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SettlementRecord
	for _, rec := range s.records {
		if match(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out
}

// ListActiveRecords retrieves all PENDING and PROCESSING records.
func (s *Store) ListActiveRecords(ctx context.Context) ([]models.SettlementRecord, error) {
	return s.list(func(r *models.SettlementRecord) bool {
		return r.Status == models.PENDING || r.Status == models.PROCESSING
	}), nil
}

// ListRecordsSince retrieves all records requested at or after the given time.
func (s *Store) ListRecordsSince(ctx context.Context, since time.Time) ([]models.SettlementRecord, error) {
	return s.list(func(r *models.SettlementRecord) bool {
		return !r.RequestedAt.Before(since)
	}), nil
}

// ListRecordsByPayee retrieves all records for a specific payee.
func (s *Store) ListRecordsByPayee(ctx context.Context, payeeID string) ([]models.SettlementRecord, error) {
	return s.list(func(r *models.SettlementRecord) bool {
		return r.PayeeId == payeeID
	}), nil
}

// ListStuckRecords retrieves records that have sat in PENDING longer than maxAge.
func (s *Store) ListStuckRecords(ctx context.Context, maxAge time.Duration) ([]models.SettlementRecord, error) {
	cutoff := time.Now().Add(-maxAge)
	return s.list(func(r *models.SettlementRecord) bool {
		return r.Status == models.PENDING && r.RequestedAt.Before(cutoff)
	}), nil
}
