package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khatapos/internal/model"
)

// DefaultLanguage is used until the owner picks one.
const DefaultLanguage = "en"

// SeedInventory is the starter stock a fresh (or self-healed) shop gets.
// Everyday kirana staples so the app is usable before the owner adds items.
func SeedInventory() []model.InventoryItem {
	now := time.Now()
	mk := func(name, unit, category string, stock, price, threshold int64) model.InventoryItem {
		return model.InventoryItem{
			ID:                uuid.New(),
			Name:              name,
			Stock:             decimal.NewFromInt(stock),
			Unit:              unit,
			Price:             decimal.NewFromInt(price),
			LastUpdated:       now,
			LowStockThreshold: decimal.NewFromInt(threshold),
			Category:          category,
		}
	}
	return []model.InventoryItem{
		mk("Rice (Mansuli)", "kg", "grains", 50, 90, 10),
		mk("Lentils (Musuro)", "kg", "grains", 20, 180, 5),
		mk("Cooking Oil", "litre", "oil", 15, 250, 3),
		mk("Sugar", "kg", "grocery", 25, 100, 5),
		mk("Salt", "packet", "grocery", 30, 25, 5),
		mk("Wai Wai Noodles", "packet", "snacks", 48, 20, 12),
		mk("Tea Leaves", "packet", "beverages", 10, 120, 2),
	}
}
