// Package api defines the wire types of the settlement HTTP surface.
package api

import (
	"time"
)

// NewSettlement is the request body for scheduling a settlement.
type NewSettlement struct {
	TransactionId string            `json:"transaction_id"`
	OrderId       string            `json:"order_id"`
	PayeeId       string            `json:"payee_id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Type          string            `json:"type"`
	Priority      string            `json:"priority"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Route describes the chosen disbursement path.
type Route struct {
	Id                  string   `json:"id"`
	ProviderId          string   `json:"provider_id"`
	ProviderName        string   `json:"provider_name"`
	FallbackProviderIds []string `json:"fallback_provider_ids,omitempty"`
	EstimatedTimeMs     int64    `json:"estimated_time_ms"`
	TotalFee            int64    `json:"total_fee"`
}

// SettlementAccepted is returned when a request has been reserved and queued.
type SettlementAccepted struct {
	SettlementId            string    `json:"settlement_id"`
	Status                  string    `json:"status"`
	EstimatedCompletionTime time.Time `json:"estimated_completion_time"`
	Route                   Route     `json:"route"`
}

// SettlementStatus enumerates the API-visible lifecycle states.
type SettlementStatus string

// Settlement is a snapshot of a settlement record.
type Settlement struct {
	Id                  string            `json:"id"`
	TransactionId       string            `json:"transaction_id"`
	OrderId             string            `json:"order_id"`
	PayeeId             string            `json:"payee_id"`
	Amount              int64             `json:"amount"`
	Currency            string            `json:"currency"`
	Type                string            `json:"type"`
	Priority            string            `json:"priority"`
	ProviderId          string            `json:"provider_id"`
	Fee                 int64             `json:"fee"`
	Status              SettlementStatus  `json:"status"`
	FailureReason       string            `json:"failure_reason,omitempty"`
	RequestedAt         time.Time         `json:"requested_at"`
	ProcessingStartedAt *time.Time        `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time        `json:"completed_at,omitempty"`
	FailedAt            *time.Time        `json:"failed_at,omitempty"`
	CancelledAt         *time.Time        `json:"cancelled_at,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// CancelSettlement is the request body for cancelling a settlement.
type CancelSettlement struct {
	Reason string `json:"reason"`
}

// LiquidityPool is a snapshot of a currency pool.
type LiquidityPool struct {
	Currency       string    `json:"currency"`
	Total          int64     `json:"total"`
	Available      int64     `json:"available"`
	Reserved       int64     `json:"reserved"`
	MinimumReserve int64     `json:"minimum_reserve"`
	LastUpdated    time.Time `json:"last_updated"`
}

// AddLiquidity is the request body for topping up a pool.
type AddLiquidity struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// Provider is a snapshot of a catalog entry.
type Provider struct {
	Id                string   `json:"id"`
	Name              string   `json:"name"`
	Currencies        []string `json:"currencies"`
	MaxAmount         int64    `json:"max_amount"`
	FeeRate           string   `json:"fee_rate"`
	ProcessingTimeMs  int64    `json:"processing_time_ms"`
	Reliability       float64  `json:"reliability"`
	AvailableCapacity int64    `json:"available_capacity"`
	Active            bool     `json:"active"`
}

// Analytics is the aggregate settlement view for a time window.
type Analytics struct {
	WindowSeconds           int64           `json:"window_seconds"`
	Count                   int             `json:"count"`
	TotalAmount             int64           `json:"total_amount"`
	TotalFees               int64           `json:"total_fees"`
	AverageProcessingTimeMs int64           `json:"average_processing_time_ms"`
	SuccessRate             float64         `json:"success_rate"`
	QueueDepth              int             `json:"queue_depth"`
	Pools                   []LiquidityPool `json:"pools"`
}
