package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/engine"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	lastWindow time.Duration
	result     *engine.Analytics
}

func (f *fakeService) GetAnalytics(ctx context.Context, window time.Duration) (*engine.Analytics, error) {
	f.lastWindow = window
	out := *f.result
	out.Window = window
	return &out, nil
}

func TestGetAnalytics(t *testing.T) {
	service := &fakeService{result: &engine.Analytics{
		Count:                 3,
		TotalAmount:           5_000_000,
		TotalFees:             90_000,
		AverageProcessingTime: 1500 * time.Millisecond,
		SuccessRate:           0.5,
		QueueDepth:            1,
		Pools:                 []models.LiquidityPool{{Currency: "BDT", Total: 10_000_000}},
	}}
	handler := NewAnalyticsHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("Default Window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		rr := httptest.NewRecorder()

		handler.GetAnalytics(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, DefaultWindow, service.lastWindow)

		var out api.Analytics
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		assert.Equal(t, 3, out.Count)
		assert.Equal(t, int64(1500), out.AverageProcessingTimeMs)
		assert.Equal(t, 0.5, out.SuccessRate)
		assert.Len(t, out.Pools, 1)
	})

	t.Run("Explicit Window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics?window_seconds=3600", nil)
		rr := httptest.NewRecorder()

		handler.GetAnalytics(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, time.Hour, service.lastWindow)
	})

	t.Run("Invalid Window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics?window_seconds=-10", nil)
		rr := httptest.NewRecorder()

		handler.GetAnalytics(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
