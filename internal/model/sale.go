package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands for a sale or settlement.
type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayQR     PaymentMethod = "qr"
	PayCredit PaymentMethod = "credit" // goods on khata, no money received
)

// LineItem is one billed line: a quantity of a named good at a price. The
// inventory link is weak — a nil InventoryID means a free-text item that was
// billed without touching stock (e.g. an unresolved voice-parsed line).
type LineItem struct {
	InventoryID *uuid.UUID      `json:"inventory_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// ProvenanceMeta records how a settlement arrived at its numbers so that
// reporting can reconstruct it without replaying the sub-ledger.
// RemainingDue may be negative — the customer overpaid and holds an advance.
type ProvenanceMeta struct {
	PreviousDue  decimal.Decimal `json:"previous_due"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
	// BillTotal is non-zero only when the originating settlement billed new
	// goods in the same call (a bill+payment compound).
	BillTotal decimal.Decimal `json:"bill_total,omitempty"`
}

// Compound reports whether the originating settlement billed new goods
// alongside the payment.
func (m *ProvenanceMeta) Compound() bool {
	return m != nil && m.BillTotal.IsPositive()
}

// Sale is one completed cash/QR event in the sales transaction log. When
// KhataCustomerID is set the sale is the mirror of a khata settlement: the
// money actually collected against a credit account. Sales are append-only
// but deletable; deletion reverses Items back into inventory.
type Sale struct {
	ID              uuid.UUID       `json:"id"`
	CustomerName    string          `json:"customer_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Items           []LineItem      `json:"items,omitempty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	KhataCustomerID *uuid.UUID      `json:"khata_customer_id,omitempty"`
	Meta            *ProvenanceMeta `json:"meta,omitempty"`
}
