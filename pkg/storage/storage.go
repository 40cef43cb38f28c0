package storage

import (
	"context"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// RecordReader defines the read side of the settlement record store.
type RecordReader interface {
	// GetRecord retrieves a settlement record by its ID.
	GetRecord(ctx context.Context, id string) (*models.SettlementRecord, error)

	// ListActiveRecords retrieves all records in PENDING or PROCESSING state,
	// ordered by request time. Used for crash recovery on startup.
	ListActiveRecords(ctx context.Context) ([]models.SettlementRecord, error)

	// ListRecordsSince retrieves all records requested at or after the given time.
	ListRecordsSince(ctx context.Context, since time.Time) ([]models.SettlementRecord, error)

	// ListRecordsByPayee retrieves all records for a specific payee.
	ListRecordsByPayee(ctx context.Context, payeeID string) ([]models.SettlementRecord, error)

	// ListStuckRecords retrieves records that have sat in PENDING longer than maxAge.
	ListStuckRecords(ctx context.Context, maxAge time.Duration) ([]models.SettlementRecord, error)
}

// RecordWriter defines the privileged write side of the store. Records are
// created once and then only transitioned; they are never deleted.
type RecordWriter interface {
	// CreateRecord persists a new settlement record. The record's ID must be unique.
	CreateRecord(ctx context.Context, rec *models.SettlementRecord) error

	// TransitionState atomically moves a record from one status to another,
	// stamping the matching timestamp and recording reason on failure or
	// cancellation. It fails with ErrInvalidStateTransition when the record is
	// not currently in the from status; this conditional write is what arbitrates
	// races between the worker and concurrent cancellation.
	TransitionState(ctx context.Context, id string, from, to models.SettlementStatus, reason string) error
}

// RecordStore combines the reader and writer interfaces.
type RecordStore interface {
	RecordReader
	RecordWriter
}
