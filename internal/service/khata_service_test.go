package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// seedDebt gives the customer an opening debit so tests can start from a
// known prior balance.
func seedDebt(t *testing.T, ledger *store.LedgerStore, customerID uuid.UUID, amount int64) {
	t.Helper()
	require.NoError(t, ledger.Update(context.Background(), func(st *store.State) (store.Dirty, error) {
		for i := range st.Customers {
			if st.Customers[i].ID == customerID {
				st.Customers[i].Entries = append(st.Customers[i].Entries, model.KhataEntry{
					ID:     uuid.New(),
					Amount: decimal.NewFromInt(amount),
					Type:   model.EntryDebit,
				})
				return store.DirtyCustomers, nil
			}
		}
		return 0, ErrCustomerNotFound
	}))
}

func TestSettleBillPlusPartialPayment(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	itemID := addItem(t, ledger, "Rice", 50, 100)
	customerID := addCustomer(t, ledger, "Sita")
	seedDebt(t, ledger, customerID, 50)

	// Prior due 50, new bill 200, pays 150.
	resp, err := svc.Settle(ctx, customerID, dto.SettleRequest{
		Items:         []dto.LineItemRequest{lineReq(itemID, "Rice", 2, 100)},
		AmountPaid:    decimal.NewFromInt(150),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(200).Equal(resp.BillTotal))
	assert.True(t, decimal.NewFromInt(250).Equal(resp.PreviousDue), "previous due includes the new bill")
	assert.True(t, decimal.NewFromInt(100).Equal(resp.RemainingDue))
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Balance))

	st := ledger.Snapshot()
	customer := st.Customers[0]
	require.Len(t, customer.Entries, 3) // opening debit + settlement debit + credit

	// Newest-first: credit, then debit, then the opening debit.
	credit, debit := customer.Entries[0], customer.Entries[1]
	require.Equal(t, model.EntryCredit, credit.Type)
	require.Equal(t, model.EntryDebit, debit.Type)

	assert.True(t, decimal.NewFromInt(200).Equal(debit.Amount))
	require.NotNil(t, debit.ImmediatePayment)
	assert.True(t, decimal.NewFromInt(150).Equal(*debit.ImmediatePayment))
	require.NotNil(t, debit.Meta)
	assert.True(t, decimal.NewFromInt(50).Equal(debit.Meta.PreviousDue))
	assert.True(t, decimal.NewFromInt(250).Equal(debit.Meta.RemainingDue))

	assert.True(t, decimal.NewFromInt(150).Equal(credit.Amount))
	assert.True(t, credit.AutoGenerated, "credit paired with a debit is auto-generated")
	assert.True(t, credit.Date.After(debit.Date), "payment sorts strictly after its bill")
	require.NotNil(t, credit.Meta)
	assert.True(t, decimal.NewFromInt(250).Equal(credit.Meta.PreviousDue))
	assert.True(t, decimal.NewFromInt(100).Equal(credit.Meta.RemainingDue))

	// Mirror sale: collected money only, no items.
	require.Len(t, st.Sales, 1)
	mirror := st.Sales[0]
	assert.True(t, decimal.NewFromInt(150).Equal(mirror.Amount))
	assert.Empty(t, mirror.Items)
	require.NotNil(t, mirror.KhataCustomerID)
	assert.Equal(t, customerID, *mirror.KhataCustomerID)
	require.NotNil(t, mirror.Meta)
	assert.True(t, decimal.NewFromInt(200).Equal(mirror.Meta.BillTotal))

	assert.True(t, decimal.NewFromInt(48).Equal(stockOf(t, ledger, itemID)))
}

func TestSettlePurePayment(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	customerID := addCustomer(t, ledger, "Ram")
	seedDebt(t, ledger, customerID, 80)

	resp, err := svc.Settle(ctx, customerID, dto.SettleRequest{
		AmountPaid:    decimal.NewFromInt(80),
		PaymentMethod: "qr",
	})
	require.NoError(t, err)
	assert.True(t, resp.BillTotal.IsZero())
	assert.True(t, resp.RemainingDue.IsZero())
	assert.True(t, resp.Balance.IsZero())
	assert.Nil(t, resp.Debit)
	require.NotNil(t, resp.Credit)

	st := ledger.Snapshot()
	require.Len(t, st.Customers[0].Entries, 2)
	credit := st.Customers[0].Entries[0]
	assert.Equal(t, model.EntryCredit, credit.Type)
	assert.False(t, credit.AutoGenerated, "standalone payment is not auto-generated")

	require.Len(t, st.Sales, 1)
	assert.Equal(t, model.PayQR, st.Sales[0].PaymentMethod)
}

func TestSettleOverpaymentLeavesAdvance(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	customerID := addCustomer(t, ledger, "Gita")
	seedDebt(t, ledger, customerID, 60)

	resp, err := svc.Settle(ctx, customerID, dto.SettleRequest{
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-40).Equal(resp.RemainingDue), "overpayment is a negative due, not an error")
	assert.True(t, decimal.NewFromInt(-40).Equal(resp.Balance))
}

func TestAddItemsIsZeroPaymentSettlement(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	itemID := addItem(t, ledger, "Sugar", 25, 100)
	customerID := addCustomer(t, ledger, "Maya")

	resp, err := svc.AddItems(ctx, customerID, []dto.LineItemRequest{lineReq(itemID, "Sugar", 3, 100)}, "")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(resp.Balance))
	assert.Nil(t, resp.Credit, "no payment, no credit entry")

	st := ledger.Snapshot()
	assert.Empty(t, st.Sales, "zero payment mirrors nothing to the sales log")
	require.Len(t, st.Customers[0].Entries, 1)
	debit := st.Customers[0].Entries[0]
	require.NotNil(t, debit.ImmediatePayment)
	assert.True(t, debit.ImmediatePayment.IsZero())
	assert.Equal(t, "Sugar", debit.Description, "single-line bill describes itself by the item")
}

func TestSettleAbortsOnShortage(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	itemID := addItem(t, ledger, "Tea", 1, 120)
	customerID := addCustomer(t, ledger, "Bina")

	_, err := svc.Settle(ctx, customerID, dto.SettleRequest{
		Items:         []dto.LineItemRequest{lineReq(itemID, "Tea", 5, 120)},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: "cash",
	})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))

	st := ledger.Snapshot()
	assert.Empty(t, st.Customers[0].Entries, "no ledger entry for an unfulfillable bill")
	assert.Empty(t, st.Sales, "no mirror either")
	assert.True(t, decimal.NewFromInt(1).Equal(stockOf(t, ledger, itemID)))
}

func TestDeleteEntryRestoresStock(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	itemID := addItem(t, ledger, "Oil", 15, 250)
	customerID := addCustomer(t, ledger, "Dinesh")

	resp, err := svc.AddItems(ctx, customerID, []dto.LineItemRequest{lineReq(itemID, "Oil", 4, 250)}, "")
	require.NoError(t, err)
	require.NotNil(t, resp.Debit)
	assert.True(t, decimal.NewFromInt(11).Equal(stockOf(t, ledger, itemID)))

	entryID, err := uuid.Parse(resp.Debit.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEntry(ctx, customerID, entryID))

	assert.True(t, decimal.NewFromInt(15).Equal(stockOf(t, ledger, itemID)))
	got, err := svc.GetCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	assert.ErrorIs(t, svc.DeleteEntry(ctx, customerID, entryID), ErrEntryNotFound)
	assert.ErrorIs(t, svc.DeleteEntry(ctx, uuid.New(), entryID), ErrCustomerNotFound)
}

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewKhataService(newTestLedger(t), nil)

	created, err := svc.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Kiran", Phone: "9811111111"})
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, id, dto.UpdateCustomerRequest{Name: "Kiran Thapa", Phone: "9811111111"})
	require.NoError(t, err)
	assert.Equal(t, "Kiran Thapa", updated.Name)

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = svc.GetCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestEnqueueStatementWithoutQueue(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewKhataService(ledger, nil)
	customerID := addCustomer(t, ledger, "Nima")

	err := svc.EnqueueStatement(ctx, customerID, "nima@example.com")
	assert.Error(t, err, "sqlite-only deployment has no job queue")

	err = svc.EnqueueStatement(ctx, uuid.New(), "x@example.com")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
