package liquidity

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/marketplace-settlements/pkg/api"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	pools  []models.LiquidityPool
	added  map[string]int64
	addErr error
}

func (f *fakeService) LiquidityStatus() []models.LiquidityPool { return f.pools }

func (f *fakeService) AddLiquidity(currency string, amount int64) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.added == nil {
		f.added = make(map[string]int64)
	}
	f.added[currency] += amount
	return nil
}

func TestGetLiquidityStatus(t *testing.T) {
	service := &fakeService{pools: []models.LiquidityPool{
		{Currency: "BDT", Total: 10_000_000, Available: 9_000_000, Reserved: 1_000_000, MinimumReserve: 500_000, LastUpdated: time.Now()},
		{Currency: "USD", Total: 50_000, Available: 50_000},
	}}
	handler := NewLiquidityHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/liquidity", nil)
	rr := httptest.NewRecorder()

	handler.GetLiquidityStatus(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var out []api.LiquidityPool
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Len(t, out, 2)
	assert.Equal(t, "BDT", out[0].Currency)
	assert.Equal(t, int64(9_000_000), out[0].Available)
}

func TestAddLiquidity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service := &fakeService{}
		handler := NewLiquidityHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

		body, _ := json.Marshal(api.AddLiquidity{Currency: "BDT", Amount: 2_000_000})
		req := httptest.NewRequest(http.MethodPost, "/liquidity", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.AddLiquidity(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, int64(2_000_000), service.added["BDT"])
	})

	t.Run("Missing Currency", func(t *testing.T) {
		handler := NewLiquidityHandler(&fakeService{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

		body, _ := json.Marshal(api.AddLiquidity{Amount: 100})
		req := httptest.NewRequest(http.MethodPost, "/liquidity", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.AddLiquidity(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Rejected Amount", func(t *testing.T) {
		service := &fakeService{addErr: errors.New("amount must be positive")}
		handler := NewLiquidityHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

		body, _ := json.Marshal(api.AddLiquidity{Currency: "BDT", Amount: -5})
		req := httptest.NewRequest(http.MethodPost, "/liquidity", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.AddLiquidity(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
