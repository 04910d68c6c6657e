package dto

import (
	"github.com/shopspring/decimal"

	"khatapos/internal/model"
)

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name        string `json:"name"  validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address"`
	PAN         string `json:"pan"`
	Citizenship string `json:"citizenship"`
}

type UpdateCustomerRequest struct {
	Name        string `json:"name"  validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address"`
	PAN         string `json:"pan"`
	Citizenship string `json:"citizenship"`
}

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	PAN         string          `json:"pan,omitempty"`
	Citizenship string          `json:"citizenship,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	Entries     []EntryResponse `json:"transactions,omitempty"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int                `json:"total"`
}

// ─── Settlement ──────────────────────────────────────────────────────────────

// SettleRequest bills new goods and/or records a payment against a khata in
// one call. Items may be empty (pure payment); amount_paid may be zero (goods
// fully on credit).
type SettleRequest struct {
	Items         []LineItemRequest `json:"items" validate:"omitempty,dive"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"    validate:"min=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash qr"`
	Description   string            `json:"description"`
}

type SettleResponse struct {
	CustomerID   string          `json:"customer_id"`
	BillTotal    decimal.Decimal `json:"bill_total"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	PreviousDue  decimal.Decimal `json:"previous_due"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
	Balance      decimal.Decimal `json:"balance"`
	Debit        *EntryResponse  `json:"debit,omitempty"`
	Credit       *EntryResponse  `json:"credit,omitempty"`
}

type EntryResponse struct {
	ID               string                `json:"id"`
	Date             string                `json:"date"`
	Description      string                `json:"description,omitempty"`
	Amount           decimal.Decimal       `json:"amount"`
	Type             string                `json:"type"`
	Items            []model.LineItem      `json:"items,omitempty"`
	ImmediatePayment *decimal.Decimal      `json:"immediate_payment,omitempty"`
	AutoGenerated    bool                  `json:"is_auto_generated,omitempty"`
	Meta             *model.ProvenanceMeta `json:"meta,omitempty"`
}

// AddItemsRequest issues goods fully on credit.
type AddItemsRequest struct {
	Items       []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Description string            `json:"description"`
}

// StatementRequest asks for the customer's khata statement to be mailed.
type StatementRequest struct {
	Email string `json:"email" validate:"required,email"`
}
