package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// memKV is an in-memory store.KV for service-level tests.
type memKV struct{ data map[string][]byte }

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// newTestLedger opens a ledger over an empty in-memory KV. It starts with
// the seed catalog; tests that need known items add their own.
func newTestLedger(t *testing.T) *store.LedgerStore {
	t.Helper()
	s := store.New(newMemKV())
	require.NoError(t, s.Open(context.Background()))
	return s
}

// addItem inserts an inventory item with the given stock and price and
// returns its id.
func addItem(t *testing.T, ledger *store.LedgerStore, name string, stock, price int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, ledger.Update(context.Background(), func(st *store.State) (store.Dirty, error) {
		st.Inventory = append(st.Inventory, model.InventoryItem{
			ID:    id,
			Name:  name,
			Stock: decimal.NewFromInt(stock),
			Unit:  "kg",
			Price: decimal.NewFromInt(price),
		})
		return store.DirtyInventory, nil
	}))
	return id
}

// addCustomer inserts a khata customer and returns its id.
func addCustomer(t *testing.T, ledger *store.LedgerStore, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, ledger.Update(context.Background(), func(st *store.State) (store.Dirty, error) {
		st.Customers = append(st.Customers, model.KhataCustomer{
			ID:      id,
			Name:    name,
			Phone:   "9800000000",
			Entries: []model.KhataEntry{},
		})
		return store.DirtyCustomers, nil
	}))
	return id
}

func stockOf(t *testing.T, ledger *store.LedgerStore, id uuid.UUID) decimal.Decimal {
	t.Helper()
	st := ledger.Snapshot()
	for i := range st.Inventory {
		if st.Inventory[i].ID == id {
			return st.Inventory[i].Stock
		}
	}
	t.Fatalf("item %s not found", id)
	return decimal.Zero
}

func lineReq(id uuid.UUID, name string, qty, price int64) dto.LineItemRequest {
	idStr := id.String()
	return dto.LineItemRequest{
		InventoryID: &idStr,
		Name:        name,
		Quantity:    decimal.NewFromInt(qty),
		Price:       decimal.NewFromInt(price),
	}
}

func freeTextLine(name string, qty, price int64) dto.LineItemRequest {
	return dto.LineItemRequest{
		Name:     name,
		Quantity: decimal.NewFromInt(qty),
		Price:    decimal.NewFromInt(price),
	}
}
