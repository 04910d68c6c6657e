package dto

import (
	"github.com/shopspring/decimal"

	"khatapos/internal/model"
)

// LineItemRequest is one billed line. InventoryID is optional: a free-text
// line is billed without touching stock.
type LineItemRequest struct {
	InventoryID *string         `json:"inventory_id" validate:"omitempty,uuid"`
	Name        string          `json:"name"         validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
	Price       decimal.Decimal `json:"price"        validate:"min=0"`
}

// ConfirmSaleRequest records a completed sale. For payment_method credit the
// khata_customer_id is mandatory — goods fully on credit go to the customer's
// sub-ledger, not to the sales log.
type ConfirmSaleRequest struct {
	CustomerName    string            `json:"customer_name"`
	Items           []LineItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod   string            `json:"payment_method" validate:"required,oneof=cash qr credit"`
	KhataCustomerID *string           `json:"khata_customer_id" validate:"omitempty,uuid"`
}

type SaleFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleResponse struct {
	ID              string                `json:"id"`
	CustomerName    string                `json:"customer_name,omitempty"`
	Amount          decimal.Decimal       `json:"amount"`
	Date            string                `json:"date"`
	Items           []model.LineItem      `json:"items,omitempty"`
	PaymentMethod   string                `json:"payment_method"`
	KhataCustomerID *string               `json:"khata_customer_id,omitempty"`
	Meta            *model.ProvenanceMeta `json:"meta,omitempty"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
