package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the side of a khata entry.
type EntryType string

const (
	EntryDebit  EntryType = "debit"  // goods issued on credit — balance goes up
	EntryCredit EntryType = "credit" // payment received — balance goes down
)

// KhataEntry is one row in a customer's credit sub-ledger.
type KhataEntry struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        EntryType       `json:"type"`
	Items       []LineItem      `json:"items,omitempty"`
	// ImmediatePayment is valid only on debit entries: how much of this
	// specific bill was paid the moment the goods were issued.
	ImmediatePayment *decimal.Decimal `json:"immediate_payment,omitempty"`
	// AutoGenerated marks a credit entry produced jointly with a debit in the
	// same settlement call. The UI may suppress it as a duplicate row, but it
	// always stays in the ledger as the source of truth for balance math.
	AutoGenerated bool            `json:"is_auto_generated,omitempty"`
	Meta          *ProvenanceMeta `json:"meta,omitempty"`
}

// Signed returns the entry amount with its accounting sign: debits positive,
// credits negative.
func (e *KhataEntry) Signed() decimal.Decimal {
	if e.Type == EntryCredit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// KhataCustomer is one credit account ("khata"): identity plus an owned,
// ordered sub-ledger. Entries are stored newest-first by insertion; any
// chronological math must use each entry's Date, never list position.
// Customers are only ever created by an explicit action, never implicitly.
type KhataCustomer struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	PAN         string       `json:"pan,omitempty"`
	Citizenship string       `json:"citizenship,omitempty"`
	Entries     []KhataEntry `json:"transactions"`
}

// Balance is the running sum over the full sub-ledger:
// Σ debit − Σ credit. Positive means the customer owes the shop.
func (c *KhataCustomer) Balance() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Entries {
		total = total.Add(c.Entries[i].Signed())
	}
	return total
}

// BalanceAt computes the historical balance considering only entries dated
// at or before t. Computed from entry dates so it is indifferent to list
// order, and equal whether accumulated incrementally or from scratch.
func (c *KhataCustomer) BalanceAt(t time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range c.Entries {
		if !c.Entries[i].Date.After(t) {
			total = total.Add(c.Entries[i].Signed())
		}
	}
	return total
}
