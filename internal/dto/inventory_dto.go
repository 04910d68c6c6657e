package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name              string          `json:"name"     validate:"required"`
	Unit              string          `json:"unit"     validate:"required"`
	Price             decimal.Decimal `json:"price"    validate:"min=0"`
	Stock             decimal.Decimal `json:"stock"    validate:"min=0"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold" validate:"min=0"`
	Category          string          `json:"category"`
}

// StockEntryRequest is one restock line. An entry whose inventory id does not
// resolve is silently skipped — that is the documented contract, so callers
// can replay a mixed bag of lines without pre-filtering.
type StockEntryRequest struct {
	InventoryID  *string          `json:"inventory_id"  validate:"omitempty,uuid"`
	Quantity     decimal.Decimal  `json:"quantity"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Supplier     string           `json:"supplier"`
}

type AddStockRequest struct {
	Entries []StockEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Stock             decimal.Decimal `json:"stock"`
	Unit              string          `json:"unit"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	Category          string          `json:"category,omitempty"`
	LastUpdated       string          `json:"last_updated"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int            `json:"total"`
}
