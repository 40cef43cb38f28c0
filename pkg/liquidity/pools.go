// Package liquidity tracks per-currency disbursement capacity and admission-controls
// settlement requests against it.
package liquidity

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// ErrInsufficientLiquidity is returned when a pool cannot cover a reservation
// without breaching its minimum reserve, or when no pool exists for the currency.
var ErrInsufficientLiquidity = errors.New("insufficient liquidity")

// ErrReleaseExceedsReserved is returned when a release would drive a pool's
// reserved amount negative. It indicates a bookkeeping bug, not a caller error.
var ErrReleaseExceedsReserved = errors.New("release exceeds reserved amount")

// pool wraps the ledger with its own lock so currencies contend independently.
type pool struct {
	mu sync.Mutex
	models.LiquidityPool
}

// Manager owns all currency pools. A reservation holds capacity for the duration
// of a settlement's non-terminal states; it is released exactly once on every
// terminal transition regardless of outcome, because the pool models capacity to
// attempt transfers rather than funds actually disbursed.
type Manager struct {
	mu    sync.RWMutex
	pools map[string]*pool
}

// NewManager creates an empty Manager. Pools are added with CreatePool or
// implicitly by AddLiquidity.
func NewManager() *Manager {
	return &Manager{pools: make(map[string]*pool)}
}

// CreatePool registers a pool for a currency with an initial balance and a
// minimum reserve floor. Creating an existing pool is an error.
func (m *Manager) CreatePool(currency string, total, minimumReserve int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pools[currency]; ok {
		return fmt.Errorf("pool for currency %s already exists", currency)
	}
	m.pools[currency] = &pool{LiquidityPool: models.LiquidityPool{
		Currency:       currency,
		Total:          total,
		Available:      total,
		MinimumReserve: minimumReserve,
		LastUpdated:    time.Now(),
	}}
	return nil
}

func (m *Manager) get(currency string) (*pool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pools[currency]
	return p, ok
}

// CheckAvailability reports whether a reservation of amount could currently be
// made. Passing a check does not hold anything: concurrent callers must still go
// through Reserve, which re-checks under the pool lock.
func (m *Manager) CheckAvailability(currency string, amount int64) error {
	p, ok := m.get(currency)
	if !ok {
		return fmt.Errorf("no pool for currency %s: %w", currency, ErrInsufficientLiquidity)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.check(amount)
}

// check must be called with the pool lock held.
func (p *pool) check(amount int64) error {
	if p.Available < amount {
		return fmt.Errorf("pool %s has %d available, need %d: %w",
			p.Currency, p.Available, amount, ErrInsufficientLiquidity)
	}
	if p.Available-amount < p.MinimumReserve {
		return fmt.Errorf("reserving %d would leave pool %s below its minimum reserve of %d: %w",
			amount, p.Currency, p.MinimumReserve, ErrInsufficientLiquidity)
	}
	return nil
}

// Reserve atomically checks and holds amount against the currency's pool. The
// check and the mutation happen under one lock, so two concurrent reservations
// can never jointly overdraw the pool.
func (m *Manager) Reserve(currency string, amount int64) error {
	p, ok := m.get(currency)
	if !ok {
		return fmt.Errorf("no pool for currency %s: %w", currency, ErrInsufficientLiquidity)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(amount); err != nil {
		return err
	}
	p.Available -= amount
	p.Reserved += amount
	p.LastUpdated = time.Now()
	return nil
}

// Release returns a previously reserved amount to the pool. Callers must release
// exactly once per settlement, on its terminal transition.
func (m *Manager) Release(currency string, amount int64) error {
	p, ok := m.get(currency)
	if !ok {
		return fmt.Errorf("no pool for currency %s: %w", currency, ErrInsufficientLiquidity)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Reserved < amount {
		return fmt.Errorf("pool %s has %d reserved, cannot release %d: %w",
			p.Currency, p.Reserved, amount, ErrReleaseExceedsReserved)
	}
	p.Available += amount
	p.Reserved -= amount
	p.LastUpdated = time.Now()
	return nil
}

// AddLiquidity is an operator action that increases a pool's total and available
// balances. The pool is created with a zero minimum reserve if it does not exist.
func (m *Manager) AddLiquidity(currency string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("liquidity amount must be positive, got %d", amount)
	}
	m.mu.Lock()
	p, ok := m.pools[currency]
	if !ok {
		p = &pool{LiquidityPool: models.LiquidityPool{Currency: currency}}
		m.pools[currency] = p
	}
	m.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.Total += amount
	p.Available += amount
	p.LastUpdated = time.Now()
	return nil
}

// Snapshot returns a point-in-time copy of every pool, sorted by currency.
func (m *Manager) Snapshot() []models.LiquidityPool {
	m.mu.RLock()
	pools := make([]*pool, 0, len(m.pools))
	for _, p := range m.pools {
		pools = append(pools, p)
	}
	m.mu.RUnlock()

	out := make([]models.LiquidityPool, 0, len(pools))
	for _, p := range pools {
		p.mu.Lock()
		out = append(out, p.LiquidityPool)
		p.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// PoolSnapshot returns a copy of a single pool's ledger.
func (m *Manager) PoolSnapshot(currency string) (models.LiquidityPool, bool) {
	p, ok := m.get(currency)
	if !ok {
		return models.LiquidityPool{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.LiquidityPool, true
}
