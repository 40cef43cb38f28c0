package registry

import (
	"testing"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Provider {
	return []models.Provider{
		{
			Id: "bkash", Name: "bKash", Currencies: []string{"BDT"},
			MaxAmount: 5_000_000, FeeRate: decimal.RequireFromString("0.012"),
			ProcessingTime: 30 * time.Second, Reliability: 0.98,
			AvailableCapacity: 20_000_000, Active: true,
		},
		{
			Id: "nagad", Name: "Nagad", Currencies: []string{"BDT"},
			MaxAmount: 2_000_000, FeeRate: decimal.RequireFromString("0.010"),
			ProcessingTime: 45 * time.Second, Reliability: 0.96,
			AvailableCapacity: 10_000_000, Active: true,
		},
		{
			Id: "citybank-wire", Name: "City Bank Wire", Currencies: []string{"BDT", "USD"},
			MaxAmount: 50_000_000, FeeRate: decimal.RequireFromString("0.005"),
			ProcessingTime: 4 * time.Hour, Reliability: 0.99,
			AvailableCapacity: 100_000_000, Active: true,
		},
		{
			Id: "rocket", Name: "Rocket", Currencies: []string{"BDT"},
			MaxAmount: 1_000_000, FeeRate: decimal.RequireFromString("0.011"),
			ProcessingTime: 60 * time.Second, Reliability: 0.93,
			AvailableCapacity: 5_000_000, Active: false,
		},
	}
}

func TestListEligible(t *testing.T) {
	r := New(testCatalog())

	t.Run("Filters Currency MaxAmount And Active", func(t *testing.T) {
		eligible := r.ListEligible("BDT", 3_000_000)
		// nagad is over its ceiling, rocket is inactive.
		require.Len(t, eligible, 2)
		assert.Equal(t, "bkash", eligible[0].Id)
		assert.Equal(t, "citybank-wire", eligible[1].Id)
	})

	t.Run("Filters Unsupported Currency", func(t *testing.T) {
		eligible := r.ListEligible("USD", 100)
		require.Len(t, eligible, 1)
		assert.Equal(t, "citybank-wire", eligible[0].Id)
	})

	t.Run("Empty Result Is Not An Error", func(t *testing.T) {
		assert.Empty(t, r.ListEligible("EUR", 100))
	})

	t.Run("Filters Capacity", func(t *testing.T) {
		reg := New(testCatalog())
		require.NoError(t, reg.ConsumeCapacity("bkash", 19_500_000))
		eligible := reg.ListEligible("BDT", 1_000_000)
		for _, p := range eligible {
			assert.NotEqual(t, "bkash", p.Id)
		}
	})
}

func TestConsumeCapacity(t *testing.T) {
	r := New(testCatalog())

	require.NoError(t, r.ConsumeCapacity("nagad", 4_000_000))
	p, ok := r.Get("nagad")
	require.True(t, ok)
	assert.Equal(t, int64(6_000_000), p.AvailableCapacity)

	assert.Error(t, r.ConsumeCapacity("nagad", 7_000_000))
	assert.Error(t, r.ConsumeCapacity("unknown", 1))

	require.NoError(t, r.RestoreCapacity("nagad", 4_000_000))
	p, _ = r.Get("nagad")
	assert.Equal(t, int64(10_000_000), p.AvailableCapacity)
}

func TestSetActive(t *testing.T) {
	r := New(testCatalog())

	require.NoError(t, r.SetActive("rocket", true))
	eligible := r.ListEligible("BDT", 500_000)
	ids := make([]string, 0, len(eligible))
	for _, p := range eligible {
		ids = append(ids, p.Id)
	}
	assert.Contains(t, ids, "rocket")

	assert.Error(t, r.SetActive("unknown", true))
}

func TestSnapshotPreservesOrder(t *testing.T) {
	r := New(testCatalog())
	snap := r.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, "bkash", snap[0].Id)
	assert.Equal(t, "rocket", snap[3].Id)
}
