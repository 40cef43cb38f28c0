package memory

import (
	"context"
	"testing"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id string, status models.SettlementStatus, requestedAt time.Time) *models.SettlementRecord {
	return &models.SettlementRecord{
		Id:          id,
		PayeeId:     "payee-1",
		Amount:      100_000,
		Currency:    "BDT",
		Priority:    models.PriorityMedium,
		Status:      status,
		RequestedAt: requestedAt,
		UpdatedAt:   requestedAt,
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := newRecord("stl-1", models.PENDING, time.Now())
	require.NoError(t, s.CreateRecord(ctx, rec))
	assert.Error(t, s.CreateRecord(ctx, rec))

	got, err := s.GetRecord(ctx, "stl-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Id, got.Id)

	// Returned record is a copy; mutating it must not touch the store.
	got.Status = models.COMPLETED
	again, err := s.GetRecord(ctx, "stl-1")
	require.NoError(t, err)
	assert.Equal(t, models.PENDING, again.Status)

	_, err = s.GetRecord(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestTransitionState(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateRecord(ctx, newRecord("stl-1", models.PENDING, time.Now())))

	t.Run("Stamps Timestamps Along The Lifecycle", func(t *testing.T) {
		require.NoError(t, s.TransitionState(ctx, "stl-1", models.PENDING, models.PROCESSING, ""))
		rec, err := s.GetRecord(ctx, "stl-1")
		require.NoError(t, err)
		require.NotNil(t, rec.ProcessingStartedAt)

		require.NoError(t, s.TransitionState(ctx, "stl-1", models.PROCESSING, models.COMPLETED, ""))
		rec, err = s.GetRecord(ctx, "stl-1")
		require.NoError(t, err)
		require.NotNil(t, rec.CompletedAt)
		assert.Equal(t, models.COMPLETED, rec.Status)
	})

	t.Run("Wrong From State Is Rejected", func(t *testing.T) {
		err := s.TransitionState(ctx, "stl-1", models.PROCESSING, models.CANCELLED, "late cancel")
		assert.ErrorIs(t, err, storage.ErrInvalidStateTransition)
	})

	t.Run("Unknown Record Is Not Found", func(t *testing.T) {
		err := s.TransitionState(ctx, "missing", models.PENDING, models.PROCESSING, "")
		assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	})

	t.Run("Cancelled Context Is Rejected", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		err := s.TransitionState(cancelled, "stl-1", models.COMPLETED, models.FAILED, "")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Reason Is Recorded", func(t *testing.T) {
		require.NoError(t, s.CreateRecord(ctx, newRecord("stl-2", models.PROCESSING, time.Now())))
		require.NoError(t, s.TransitionState(ctx, "stl-2", models.PROCESSING, models.FAILED, "provider rejected transfer"))
		rec, err := s.GetRecord(ctx, "stl-2")
		require.NoError(t, err)
		assert.Equal(t, "provider rejected transfer", rec.FailureReason)
		require.NotNil(t, rec.FailedAt)
	})
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	require.NoError(t, s.CreateRecord(ctx, newRecord("old-pending", models.PENDING, now.Add(-2*time.Hour))))
	require.NoError(t, s.CreateRecord(ctx, newRecord("processing", models.PROCESSING, now.Add(-time.Hour))))
	done := newRecord("done", models.COMPLETED, now.Add(-30*time.Minute))
	done.PayeeId = "payee-2"
	require.NoError(t, s.CreateRecord(ctx, done))
	require.NoError(t, s.CreateRecord(ctx, newRecord("fresh", models.PENDING, now)))

	t.Run("Active Sorted By Request Time", func(t *testing.T) {
		active, err := s.ListActiveRecords(ctx)
		require.NoError(t, err)
		require.Len(t, active, 3)
		assert.Equal(t, "old-pending", active[0].Id)
		assert.Equal(t, "processing", active[1].Id)
		assert.Equal(t, "fresh", active[2].Id)
	})

	t.Run("Since Window", func(t *testing.T) {
		recent, err := s.ListRecordsSince(ctx, now.Add(-45*time.Minute))
		require.NoError(t, err)
		require.Len(t, recent, 2)
	})

	t.Run("By Payee", func(t *testing.T) {
		records, err := s.ListRecordsByPayee(ctx, "payee-2")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "done", records[0].Id)
	})

	t.Run("Stuck Pending Only", func(t *testing.T) {
		stuck, err := s.ListStuckRecords(ctx, time.Hour)
		require.NoError(t, err)
		require.Len(t, stuck, 1)
		assert.Equal(t, "old-pending", stuck[0].Id)
	})
}
