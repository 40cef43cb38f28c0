package liquidity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBDTPool builds the reference pool used across these tests:
// total=10,000,000 available=9,000,000 reserved=1,000,000 minimumReserve=500,000.
func newBDTPool(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	require.NoError(t, m.CreatePool("BDT", 10_000_000, 500_000))
	require.NoError(t, m.Reserve("BDT", 1_000_000))
	return m
}

func TestReserve(t *testing.T) {
	t.Run("Rejects When Minimum Reserve Would Be Breached", func(t *testing.T) {
		m := newBDTPool(t)

		// 9,000,000 - 8,600,000 = 400,000 < 500,000 minimum reserve.
		err := m.Reserve("BDT", 8_600_000)
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)

		p, ok := m.PoolSnapshot("BDT")
		require.True(t, ok)
		assert.Equal(t, int64(9_000_000), p.Available)
		assert.Equal(t, int64(1_000_000), p.Reserved)
	})

	t.Run("Accepts Up To The Minimum Reserve", func(t *testing.T) {
		m := newBDTPool(t)

		require.NoError(t, m.Reserve("BDT", 8_000_000))

		p, ok := m.PoolSnapshot("BDT")
		require.True(t, ok)
		assert.Equal(t, int64(1_000_000), p.Available)
		assert.Equal(t, int64(9_000_000), p.Reserved)
		assert.Equal(t, p.Total, p.Available+p.Reserved)
	})

	t.Run("Unknown Currency", func(t *testing.T) {
		m := NewManager()
		assert.ErrorIs(t, m.Reserve("XYZ", 100), ErrInsufficientLiquidity)
		assert.ErrorIs(t, m.CheckAvailability("XYZ", 100), ErrInsufficientLiquidity)
	})

	t.Run("Insufficient Available", func(t *testing.T) {
		m := newBDTPool(t)
		assert.ErrorIs(t, m.Reserve("BDT", 9_000_001), ErrInsufficientLiquidity)
	})
}

// TestConcurrentReserve drives two reservations that each individually pass the
// availability check but jointly overdraw the pool. Exactly one may win.
func TestConcurrentReserve(t *testing.T) {
	m := newBDTPool(t)

	const amount = 5_000_000
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Reserve("BDT", amount)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientLiquidity)
		}
	}
	assert.Equal(t, 1, succeeded)

	p, ok := m.PoolSnapshot("BDT")
	require.True(t, ok)
	assert.GreaterOrEqual(t, p.Available, int64(0))
	assert.Equal(t, p.Total, p.Available+p.Reserved)
}

func TestRelease(t *testing.T) {
	t.Run("Returns Capacity To Available", func(t *testing.T) {
		m := newBDTPool(t)

		require.NoError(t, m.Release("BDT", 1_000_000))

		p, _ := m.PoolSnapshot("BDT")
		assert.Equal(t, int64(10_000_000), p.Available)
		assert.Equal(t, int64(0), p.Reserved)
	})

	t.Run("Cannot Exceed Reserved", func(t *testing.T) {
		m := newBDTPool(t)
		assert.ErrorIs(t, m.Release("BDT", 1_000_001), ErrReleaseExceedsReserved)
	})
}

func TestAddLiquidity(t *testing.T) {
	t.Run("Grows Total And Available", func(t *testing.T) {
		m := newBDTPool(t)

		require.NoError(t, m.AddLiquidity("BDT", 2_000_000))

		p, _ := m.PoolSnapshot("BDT")
		assert.Equal(t, int64(12_000_000), p.Total)
		assert.Equal(t, int64(11_000_000), p.Available)
		assert.Equal(t, p.Total, p.Available+p.Reserved)
	})

	t.Run("Creates Missing Pool", func(t *testing.T) {
		m := NewManager()
		require.NoError(t, m.AddLiquidity("USD", 500))

		p, ok := m.PoolSnapshot("USD")
		require.True(t, ok)
		assert.Equal(t, int64(500), p.Available)
	})

	t.Run("Rejects Non Positive Amounts", func(t *testing.T) {
		m := NewManager()
		assert.Error(t, m.AddLiquidity("USD", 0))
		assert.Error(t, m.AddLiquidity("USD", -5))
	})
}

func TestSnapshotSortedByCurrency(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.CreatePool("USD", 100, 0))
	require.NoError(t, m.CreatePool("BDT", 100, 0))

	pools := m.Snapshot()
	require.Len(t, pools, 2)
	assert.Equal(t, "BDT", pools[0].Currency)
	assert.Equal(t, "USD", pools[1].Currency)
}

func TestCreatePoolTwice(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.CreatePool("BDT", 100, 0))
	assert.Error(t, m.CreatePool("BDT", 100, 0))
}
