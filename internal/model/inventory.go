package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricePoint is one snapshot in an item's selling-price history.
// Records are immutable — never deleted nor modified.
type PricePoint struct {
	Price decimal.Decimal `json:"price"`
	Date  time.Time       `json:"date"`
}

// PurchasePricePoint is one restock record: what the shop paid, when,
// how much came in, and from whom.
type PurchasePricePoint struct {
	Price    decimal.Decimal `json:"price"`
	Date     time.Time       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Supplier string          `json:"supplier,omitempty"`
}

// InventoryItem tracks one stocked good. Lifecycle is add-once,
// mutate-forever: items are never deleted, only depleted and restocked.
// Stock never goes negative — deductions clamp at zero.
type InventoryItem struct {
	ID                   uuid.UUID            `json:"id"`
	Name                 string               `json:"name"`
	Stock                decimal.Decimal      `json:"stock"`
	Unit                 string               `json:"unit"` // kg, pcs, litre, packet…
	Price                decimal.Decimal      `json:"price"`
	LastUpdated          time.Time            `json:"last_updated"`
	PriceHistory         []PricePoint         `json:"price_history,omitempty"`
	PurchasePriceHistory []PurchasePricePoint `json:"purchase_price_history,omitempty"`
	LowStockThreshold    decimal.Decimal      `json:"low_stock_threshold"`
	Category             string               `json:"category,omitempty"`
}

// LowStock reports whether the item has depleted to or below its threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Stock.LessThanOrEqual(i.LowStockThreshold)
}
