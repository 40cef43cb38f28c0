// Package provider defines the capability interface for external disbursement
// channels. Real integrations (mobile wallets, bank rails) implement Adapter;
// this module ships only a sandbox implementation.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Receipt is the provider's acknowledgement of a completed transfer.
type Receipt struct {
	Reference   string
	CompletedAt time.Time
}

// Adapter submits a single transfer to an external provider. Implementations
// must honor ctx cancellation; the worker imposes a per-call timeout.
type Adapter interface {
	Submit(ctx context.Context, amount int64, currency string) (*Receipt, error)
}

// SandboxAdapter is a deterministic Adapter for local mode and tests. It waits
// for Latency (respecting ctx), then succeeds unless Err is set.
type SandboxAdapter struct {
	ProviderID string
	Latency    time.Duration
	Err        error
}

// Make sure we conform to the interface.
var _ Adapter = (*SandboxAdapter)(nil)

// Submit simulates a transfer through the sandbox provider.
func (a *SandboxAdapter) Submit(ctx context.Context, amount int64, currency string) (*Receipt, error) {
	if a.Latency > 0 {
		select {
		case <-time.After(a.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.Err != nil {
		return nil, a.Err
	}
	return &Receipt{
		Reference:   fmt.Sprintf("sandbox_%s_%s", a.ProviderID, uuid.New().String()),
		CompletedAt: time.Now(),
	}, nil
}
