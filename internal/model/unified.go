package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnifiedOrigin tells which backing store a unified row came from, so that a
// delete can be routed to the right ledger.
type UnifiedOrigin string

const (
	OriginSale  UnifiedOrigin = "sale"
	OriginKhata UnifiedOrigin = "khata"
)

// UnifiedSource classifies a row for money-in reporting: a fresh sale versus
// a recovery of previously issued credit.
type UnifiedSource string

const (
	SourceSales    UnifiedSource = "sales"
	SourceRecovery UnifiedSource = "recovery"
)

// UnifiedTransaction normalizes the sales log and the credit sub-ledgers into
// one shape for display and reporting. It is a projection — recomputed from
// the two source collections on every read, never persisted.
type UnifiedTransaction struct {
	ID           uuid.UUID       `json:"id"`
	Type         PaymentMethod   `json:"type"` // cash | qr | credit
	CustomerName string          `json:"customer_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description,omitempty"`
	Items        []LineItem      `json:"items,omitempty"`
	Origin       UnifiedOrigin   `json:"original_type"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`

	// Reporting-only fields.
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Source      UnifiedSource   `json:"source"`
	Meta        *ProvenanceMeta `json:"meta,omitempty"`
}
