// Package registry holds the catalog of settlement providers and answers
// eligibility queries for the route selector.
package registry

import (
	"fmt"
	"sync"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// Registry is the provider catalog. The catalog itself is fixed at construction;
// only each provider's available capacity and active flag change at runtime, and
// those mutations are serialized here.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*models.Provider
	order     []string
}

// New creates a Registry from a seed catalog. Provider order is preserved so that
// eligibility listings are deterministic.
func New(providers []models.Provider) *Registry {
	r := &Registry{providers: make(map[string]*models.Provider, len(providers))}
	for i := range providers {
		p := providers[i]
		r.providers[p.Id] = &p
		r.order = append(r.order, p.Id)
	}
	return r
}

// ListEligible returns active providers that support the currency and can carry
// the amount within both their per-transaction ceiling and available capacity.
// An empty result is not an error; the caller decides how to surface it.
func (r *Registry) ListEligible(currency string, amount int64) []models.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var eligible []models.Provider
	for _, id := range r.order {
		p := r.providers[id]
		if !p.Active {
			continue
		}
		if !p.SupportsCurrency(currency) {
			continue
		}
		if amount > p.MaxAmount || amount > p.AvailableCapacity {
			continue
		}
		eligible = append(eligible, *p)
	}
	return eligible
}

// Get returns a copy of a provider by id.
func (r *Registry) Get(id string) (models.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return models.Provider{}, false
	}
	return *p, true
}

// ConsumeCapacity reduces a provider's available capacity after a completed
// disbursement. A failed attempt consumes nothing.
func (r *Registry) ConsumeCapacity(id string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider %s not found", id)
	}
	if p.AvailableCapacity < amount {
		return fmt.Errorf("provider %s has capacity %d, cannot consume %d", id, p.AvailableCapacity, amount)
	}
	p.AvailableCapacity -= amount
	return nil
}

// RestoreCapacity is an operator action that tops a provider's capacity back up.
func (r *Registry) RestoreCapacity(id string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider %s not found", id)
	}
	p.AvailableCapacity += amount
	return nil
}

// SetActive flips a provider in or out of rotation.
func (r *Registry) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider %s not found", id)
	}
	p.Active = active
	return nil
}

// Snapshot returns a copy of the full catalog in its registration order.
func (r *Registry) Snapshot() []models.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.providers[id])
	}
	return out
}
