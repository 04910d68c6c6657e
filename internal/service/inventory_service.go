package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// InventoryService owns the stock ledger: items are added once and then
// mutated forever by restocks, sales, price updates, and reversals.
type InventoryService interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	List(ctx context.Context) (*dto.ItemListResponse, error)
	AddStock(ctx context.Context, req dto.AddStockRequest) error
	UpdatePrice(ctx context.Context, id uuid.UUID, req dto.UpdatePriceRequest) (*dto.ItemResponse, error)
}

type inventoryService struct {
	ledger *store.LedgerStore
}

func NewInventoryService(ledger *store.LedgerStore) InventoryService {
	return &inventoryService{ledger: ledger}
}

func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item := model.InventoryItem{
		ID:                uuid.New(),
		Name:              req.Name,
		Stock:             req.Stock,
		Unit:              req.Unit,
		Price:             req.Price,
		LastUpdated:       time.Now(),
		LowStockThreshold: req.LowStockThreshold,
		Category:          req.Category,
	}
	err := s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		st.Inventory = append(st.Inventory, item)
		return store.DirtyInventory, nil
	})
	if err != nil {
		return nil, err
	}
	return itemToResponse(&item), nil
}

func (s *inventoryService) List(ctx context.Context) (*dto.ItemListResponse, error) {
	st := s.ledger.Snapshot()
	items := make([]dto.ItemResponse, 0, len(st.Inventory))
	for i := range st.Inventory {
		items = append(items, *itemToResponse(&st.Inventory[i]))
	}
	return &dto.ItemListResponse{Data: items, Total: len(items)}, nil
}

// AddStock applies a batch of restock entries. Entries with an unresolvable
// id are skipped, not failed — see dto.StockEntryRequest.
func (s *inventoryService) AddStock(ctx context.Context, req dto.AddStockRequest) error {
	entries := make([]stockEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, stockEntry{
			inventoryID:  parseOptionalUUID(e.InventoryID),
			quantity:     e.Quantity,
			costPrice:    e.CostPrice,
			sellingPrice: e.SellingPrice,
			supplier:     e.Supplier,
		})
	}
	return s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		applyAddStock(st, entries, time.Now())
		return store.DirtyInventory, nil
	})
}

// UpdatePrice overwrites the selling price, archiving the old one.
func (s *inventoryService) UpdatePrice(ctx context.Context, id uuid.UUID, req dto.UpdatePriceRequest) (*dto.ItemResponse, error) {
	var updated *model.InventoryItem
	err := s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		item := findItem(st, id)
		if item == nil {
			return 0, ErrItemNotFound
		}
		item.PriceHistory = append(item.PriceHistory, model.PricePoint{
			Price: item.Price,
			Date:  time.Now(),
		})
		item.Price = req.Price
		item.LastUpdated = time.Now()
		copied := *item
		updated = &copied
		return store.DirtyInventory, nil
	})
	if err != nil {
		return nil, err
	}
	return itemToResponse(updated), nil
}

// parseOptionalUUID returns nil for absent or malformed ids — a malformed id
// behaves like an unresolvable one (skipped), per the add-stock contract.
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func itemToResponse(it *model.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                it.ID.String(),
		Name:              it.Name,
		Stock:             it.Stock,
		Unit:              it.Unit,
		Price:             it.Price,
		LowStockThreshold: it.LowStockThreshold,
		LowStock:          it.LowStock(),
		Category:          it.Category,
		LastUpdated:       it.LastUpdated.Format(time.RFC3339),
	}
}
