// Package events publishes settlement lifecycle notifications to the rest of
// the platform.
package events

import (
	"context"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// EventType identifies a lifecycle transition.
type EventType string

const (
	SettlementInitiated EventType = "settlement.initiated"
	SettlementCompleted EventType = "settlement.completed"
	SettlementFailed    EventType = "settlement.failed"
	SettlementCancelled EventType = "settlement.cancelled"
)

// Message is the wire payload for a lifecycle event.
type Message struct {
	Type         EventType         `json:"type"`
	SettlementID string            `json:"settlement_id"`
	PayeeID      string            `json:"payee_id"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	ProviderID   string            `json:"provider_id,omitempty"`
	Status       string            `json:"status"`
	Reason       string            `json:"reason,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// FromRecord builds a Message for a record's current state.
func FromRecord(t EventType, rec *models.SettlementRecord) Message {
	return Message{
		Type:         t,
		SettlementID: rec.Id,
		PayeeID:      rec.PayeeId,
		Amount:       rec.Amount,
		Currency:     rec.Currency,
		ProviderID:   rec.ProviderId,
		Status:       string(rec.Status),
		Reason:       rec.FailureReason,
		OccurredAt:   time.Now(),
		Metadata:     rec.Metadata,
	}
}

// Publisher delivers lifecycle events. Publishing is best effort from the
// engine's point of view: a failed publish is logged, never rolled back.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
