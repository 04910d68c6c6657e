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
)

func TestConfirmCashSaleDeductsStock(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	itemID := addItem(t, ledger, "Noodles", 48, 20)

	resp, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{lineReq(itemID, "Noodles", 3, 20)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(resp.Amount))
	assert.True(t, decimal.NewFromInt(45).Equal(stockOf(t, ledger, itemID)))

	list, err := svc.ListSales(ctx, dto.SaleFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, resp.ID, list.Data[0].ID)
}

func TestConfirmSaleAbortsWholeBillOnShortage(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	okID := addItem(t, ledger, "Sugar", 100, 100)
	shortID := addItem(t, ledger, "Tea", 2, 120)

	_, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items: []dto.LineItemRequest{
			lineReq(okID, "Sugar", 5, 100),
			lineReq(shortID, "Tea", 3, 120), // only 2 in stock
		},
		PaymentMethod: "cash",
	})

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Tea", stockErr.ItemName)
	assert.True(t, decimal.NewFromInt(3).Equal(stockErr.Requested))
	assert.True(t, decimal.NewFromInt(2).Equal(stockErr.Available))

	// Nothing moved — not even the line that had enough stock.
	assert.True(t, decimal.NewFromInt(100).Equal(stockOf(t, ledger, okID)))
	assert.True(t, decimal.NewFromInt(2).Equal(stockOf(t, ledger, shortID)))
	list, err := svc.ListSales(ctx, dto.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestConfirmSaleRejectsCumulativeShortageAcrossRepeatedLines(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	itemID := addItem(t, ledger, "Tea", 5, 120)

	// Each line alone fits the stock of 5; together they bill 8.
	_, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items: []dto.LineItemRequest{
			lineReq(itemID, "Tea", 4, 120),
			lineReq(itemID, "Tea", 4, 120),
		},
		PaymentMethod: "cash",
	})

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Tea", stockErr.ItemName)
	assert.True(t, decimal.NewFromInt(8).Equal(stockErr.Requested), "error carries the running total")
	assert.True(t, decimal.NewFromInt(5).Equal(stockErr.Available))

	assert.True(t, decimal.NewFromInt(5).Equal(stockOf(t, ledger, itemID)))
	list, err := svc.ListSales(ctx, dto.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestConfirmSaleFreeTextLinesSkipStock(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)

	resp, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{freeTextLine("Loose Biscuits", 2, 15)},
		PaymentMethod: "qr",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(resp.Amount))
}

func TestConfirmCreditSaleWritesBareDebit(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	itemID := addItem(t, ledger, "Rice", 50, 90)
	customerID := addCustomer(t, ledger, "Hari")
	idStr := customerID.String()

	resp, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:           []dto.LineItemRequest{lineReq(itemID, "Rice", 2, 90)},
		PaymentMethod:   "credit",
		KhataCustomerID: &idStr,
	})
	require.NoError(t, err)
	assert.Equal(t, "credit", resp.PaymentMethod)

	st := ledger.Snapshot()
	assert.Empty(t, st.Sales, "credit sale never touches the sales log")
	require.Len(t, st.Customers, 1)
	require.Len(t, st.Customers[0].Entries, 1)
	entry := st.Customers[0].Entries[0]
	assert.Equal(t, model.EntryDebit, entry.Type)
	assert.True(t, decimal.NewFromInt(180).Equal(entry.Amount))
	assert.Nil(t, entry.ImmediatePayment, "bare debit tracks no payment")
	assert.True(t, decimal.NewFromInt(48).Equal(stockOf(t, ledger, itemID)))
}

func TestConfirmCreditSaleRequiresCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewSalesService(newTestLedger(t), nil)

	_, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{freeTextLine("Rice", 1, 90)},
		PaymentMethod: "credit",
	})
	assert.Error(t, err)

	ghost := uuid.New().String()
	_, err = svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:           []dto.LineItemRequest{freeTextLine("Rice", 1, 90)},
		PaymentMethod:   "credit",
		KhataCustomerID: &ghost,
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	itemID := addItem(t, ledger, "Oil", 15, 250)

	resp, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{lineReq(itemID, "Oil", 4, 250)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11).Equal(stockOf(t, ledger, itemID)))

	saleID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSale(ctx, saleID))

	assert.True(t, decimal.NewFromInt(15).Equal(stockOf(t, ledger, itemID)))
	list, err := svc.ListSales(ctx, dto.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	assert.ErrorIs(t, svc.DeleteSale(ctx, saleID), ErrSaleNotFound)
}

func TestNegativeQuantityCoercedToZero(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)
	svc := NewSalesService(ledger, nil)
	itemID := addItem(t, ledger, "Salt", 30, 25)

	idStr := itemID.String()
	resp, err := svc.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items: []dto.LineItemRequest{{
			InventoryID: &idStr,
			Name:        "Salt",
			Quantity:    decimal.NewFromInt(-5),
			Price:       decimal.NewFromInt(25),
		}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.IsZero())
	assert.True(t, decimal.NewFromInt(30).Equal(stockOf(t, ledger, itemID)),
		"a negative quantity must never increase stock")
}
