package service

// stock.go — pure mutation helpers over *store.State. Every ledger operation
// composes these inside a single LedgerStore.Update, which is what makes a
// settlement's inventory + sub-ledger + sales-log writes all-or-nothing.

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khatapos/internal/model"
	"khatapos/internal/store"
)

// stockEntry is the internal restock line (DTO already parsed/validated).
type stockEntry struct {
	inventoryID  *uuid.UUID
	quantity     decimal.Decimal
	costPrice    *decimal.Decimal
	sellingPrice *decimal.Decimal
	supplier     string
}

func findItem(st *store.State, id uuid.UUID) *model.InventoryItem {
	for i := range st.Inventory {
		if st.Inventory[i].ID == id {
			return &st.Inventory[i]
		}
	}
	return nil
}

func findCustomer(st *store.State, id uuid.UUID) *model.KhataCustomer {
	for i := range st.Customers {
		if st.Customers[i].ID == id {
			return &st.Customers[i]
		}
	}
	return nil
}

// applyAddStock increases stock per entry. Entries with a nil or unresolvable
// inventory id are silently skipped — the caller may be replaying free-text
// bill lines that never linked to stock. A supplied cost price appends a
// purchase-history record; a positive selling price overwrites the current
// price and appends a price-history point.
func applyAddStock(st *store.State, entries []stockEntry, now time.Time) {
	for _, e := range entries {
		if e.inventoryID == nil {
			continue
		}
		item := findItem(st, *e.inventoryID)
		if item == nil {
			continue
		}

		item.Stock = item.Stock.Add(e.quantity)
		item.LastUpdated = now

		if e.costPrice != nil {
			item.PurchasePriceHistory = append(item.PurchasePriceHistory, model.PurchasePricePoint{
				Price:    *e.costPrice,
				Date:     now,
				Quantity: e.quantity,
				Supplier: e.supplier,
			})
		}
		if e.sellingPrice != nil && e.sellingPrice.IsPositive() {
			item.PriceHistory = append(item.PriceHistory, model.PricePoint{
				Price: item.Price,
				Date:  now,
			})
			item.Price = *e.sellingPrice
		}
	}
}

// applyDeductStock runs the two-phase deduction: validate every line, then
// commit every line. Both phases run inside the same Update critical section,
// so the validation can never go stale against the commit. On any shortfall
// the whole batch is rejected and st is left untouched.
//
// Validation tracks the running deduction per item, so a bill that repeats an
// item is checked against the cumulative would-be stock, not each line in
// isolation. Commit clamps at max(0, stock − qty) as the final arithmetic
// guard; a deletion that restores a clamped deduction over-restores — a
// documented asymmetry, not a defect.
func applyDeductStock(st *store.State, items []model.LineItem, now time.Time) *InsufficientStockError {
	// Phase 1 — validate cumulative would-be stock per item
	requested := make(map[uuid.UUID]decimal.Decimal)
	for _, li := range items {
		if li.InventoryID == nil {
			continue // free-text line, no stock effect
		}
		item := findItem(st, *li.InventoryID)
		if item == nil {
			continue
		}
		total := requested[item.ID].Add(li.Quantity)
		requested[item.ID] = total
		if total.GreaterThan(item.Stock) {
			return &InsufficientStockError{
				ItemName:  item.Name,
				Requested: total,
				Available: item.Stock,
			}
		}
	}

	// Phase 2 — commit
	for _, li := range items {
		if li.InventoryID == nil {
			continue
		}
		item := findItem(st, *li.InventoryID)
		if item == nil {
			continue
		}
		next := item.Stock.Sub(li.Quantity)
		if next.IsNegative() {
			next = decimal.Zero
		}
		item.Stock = next
		item.LastUpdated = now
	}
	return nil
}

// restoreItems is the compensation path: re-add the quantities a deleted
// sale or khata entry originally deducted. It is the system's only reversal
// mechanism — every deletion call site must invoke it.
func restoreItems(st *store.State, items []model.LineItem, now time.Time) {
	entries := make([]stockEntry, 0, len(items))
	for _, li := range items {
		entries = append(entries, stockEntry{
			inventoryID: li.InventoryID,
			quantity:    li.Quantity,
		})
	}
	applyAddStock(st, entries, now)
}

// billTotal sums price × quantity over the bill lines.
func billTotal(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Price.Mul(li.Quantity))
	}
	return total
}
