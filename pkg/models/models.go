package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus defines the possible states of a settlement.
type SettlementStatus string

const (
	PENDING    SettlementStatus = "PENDING"
	PROCESSING SettlementStatus = "PROCESSING"
	COMPLETED  SettlementStatus = "COMPLETED"
	FAILED     SettlementStatus = "FAILED"
	CANCELLED  SettlementStatus = "CANCELLED"
)

// Terminal reports whether a status is a final state. Terminal records are never
// mutated again; they form the audit trail.
func (s SettlementStatus) Terminal() bool {
	return s == COMPLETED || s == FAILED || s == CANCELLED
}

// SettlementPriority controls queue placement and route ranking.
type SettlementPriority string

const (
	PriorityHigh   SettlementPriority = "HIGH"
	PriorityMedium SettlementPriority = "MEDIUM"
	PriorityLow    SettlementPriority = "LOW"
)

// SettlementType is the product-level speed class of a settlement.
type SettlementType string

const (
	TypeInstant  SettlementType = "INSTANT"
	TypeStandard SettlementType = "STANDARD"
	TypeExpress  SettlementType = "EXPRESS"
)

// Provider describes an external disbursement channel. Everything except
// AvailableCapacity and Active is immutable at runtime.
type Provider struct {
	Id                string
	Name              string
	Currencies        []string
	MaxAmount         int64
	FeeRate           decimal.Decimal
	ProcessingTime    time.Duration
	Reliability       float64
	AvailableCapacity int64
	Active            bool
}

// SupportsCurrency reports whether the provider can disburse in the given currency.
func (p Provider) SupportsCurrency(currency string) bool {
	for _, c := range p.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

// LiquidityPool is the per-currency capacity ledger.
// Invariant: Available + Reserved == Total and Available >= 0.
type LiquidityPool struct {
	Currency       string    `json:"currency"`
	Total          int64     `json:"total"`
	Available      int64     `json:"available"`
	Reserved       int64     `json:"reserved"`
	MinimumReserve int64     `json:"minimum_reserve"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Route is the chosen path for a single settlement. Fallbacks are informational:
// the worker never retries onto them after a primary failure.
type Route struct {
	Id            string
	Primary       Provider
	Fallbacks     []Provider
	Currency      string
	Amount        int64
	EstimatedTime time.Duration
	TotalFee      int64
}

// SettlementRecord is the durable record of a settlement request.
// It includes dynamodbav tags for marshalling.
type SettlementRecord struct {
	Id                  string             `dynamodbav:"id"`
	TransactionId       string             `dynamodbav:"transaction_id"`
	OrderId             string             `dynamodbav:"order_id"`
	PayeeId             string             `dynamodbav:"payee_id"`
	Amount              int64              `dynamodbav:"amount"`
	Currency            string             `dynamodbav:"currency"`
	Type                SettlementType     `dynamodbav:"type"`
	Priority            SettlementPriority `dynamodbav:"priority"`
	RouteId             string             `dynamodbav:"route_id"`
	ProviderId          string             `dynamodbav:"provider_id"`
	Fee                 int64              `dynamodbav:"fee"`
	Status              SettlementStatus   `dynamodbav:"status"`
	FailureReason       string             `dynamodbav:"failure_reason,omitempty"`
	RequestedAt         time.Time          `dynamodbav:"requested_at"`
	ProcessingStartedAt *time.Time         `dynamodbav:"processing_started_at,omitempty"`
	CompletedAt         *time.Time         `dynamodbav:"completed_at,omitempty"`
	FailedAt            *time.Time         `dynamodbav:"failed_at,omitempty"`
	CancelledAt         *time.Time         `dynamodbav:"cancelled_at,omitempty"`
	UpdatedAt           time.Time          `dynamodbav:"updated_at"`
	Metadata            map[string]string  `dynamodbav:"metadata,omitempty"`
}
