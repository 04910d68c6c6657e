package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// reportFixture wires the three services over one shared ledger.
type reportFixture struct {
	ledger *store.LedgerStore
	sales  SalesService
	khata  KhataService
	report ReportService

	itemID     uuid.UUID
	customerID uuid.UUID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	ledger := newTestLedger(t)
	sales := NewSalesService(ledger, nil)
	khata := NewKhataService(ledger, nil)
	return &reportFixture{
		ledger:     ledger,
		sales:      sales,
		khata:      khata,
		report:     NewReportService(ledger, sales, khata),
		itemID:     addItem(t, ledger, "Rice", 100, 100),
		customerID: addCustomer(t, ledger, "Sita"),
	}
}

func TestUnifiedMergesAndClassifies(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)

	// Plain cash sale.
	saleResp, err := h.sales.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// Goods on khata, nothing paid: one outstanding debit row.
	_, err = h.khata.AddItems(ctx, h.customerID, []dto.LineItemRequest{lineReq(h.itemID, "Rice", 2, 100)}, "")
	require.NoError(t, err)

	// Pure payment: mirror sale classified as recovery.
	_, err = h.khata.Settle(ctx, h.customerID, dto.SettleRequest{
		AmountPaid:    decimal.NewFromInt(50),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	resp, err := h.report.Unified(ctx, dto.UnifiedFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)

	// Newest first.
	for i := 1; i < len(resp.Data); i++ {
		assert.False(t, resp.Data[i-1].Date.Before(resp.Data[i].Date))
	}

	byOrigin := map[model.UnifiedOrigin][]model.UnifiedTransaction{}
	var recoveries, plain []model.UnifiedTransaction
	for _, row := range resp.Data {
		byOrigin[row.Origin] = append(byOrigin[row.Origin], row)
		if row.Source == model.SourceRecovery {
			recoveries = append(recoveries, row)
		} else if row.Origin == model.OriginSale {
			plain = append(plain, row)
		}
	}

	require.Len(t, byOrigin[model.OriginKhata], 1)
	khataRow := byOrigin[model.OriginKhata][0]
	assert.Equal(t, model.PayCredit, khataRow.Type)
	assert.True(t, decimal.NewFromInt(200).Equal(khataRow.Amount), "outstanding remainder")
	require.NotNil(t, khataRow.CustomerID)
	assert.Equal(t, h.customerID, *khataRow.CustomerID)

	require.Len(t, recoveries, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(recoveries[0].PaidAmount))
	assert.True(t, recoveries[0].TotalAmount.IsZero(), "pure recovery moves no goods")

	require.Len(t, plain, 1)
	assert.Equal(t, saleResp.ID, plain[0].ID.String())
}

func TestUnifiedDropsFullyPaidDebit(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)

	// Bill 100, paid 100 on the spot: nothing outstanding.
	_, err := h.khata.Settle(ctx, h.customerID, dto.SettleRequest{
		Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	resp, err := h.report.Unified(ctx, dto.UnifiedFilter{})
	require.NoError(t, err)

	for _, row := range resp.Data {
		assert.NotEqual(t, model.OriginKhata, row.Origin, "fully paid debit must not appear")
	}
	// The compound mirror stays a sale, not a recovery.
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, model.SourceSales, resp.Data[0].Source)
	assert.True(t, resp.Data[0].Meta.Compound())
}

func TestUnifiedPartialPaymentShowsRemainder(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)

	// Bill 200, paid 150: khata row shows the 50 still owed.
	_, err := h.khata.Settle(ctx, h.customerID, dto.SettleRequest{
		Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 2, 100)},
		AmountPaid:    decimal.NewFromInt(150),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	resp, err := h.report.Unified(ctx, dto.UnifiedFilter{})
	require.NoError(t, err)

	var khataRows []model.UnifiedTransaction
	for _, row := range resp.Data {
		if row.Origin == model.OriginKhata {
			khataRows = append(khataRows, row)
		}
	}
	require.Len(t, khataRows, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(khataRows[0].Amount))
	assert.True(t, decimal.NewFromInt(200).Equal(khataRows[0].TotalAmount))
	assert.True(t, decimal.NewFromInt(150).Equal(khataRows[0].PaidAmount))
}

func TestUnifiedLimit(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)

	for i := 0; i < 5; i++ {
		_, err := h.sales.ConfirmSale(ctx, dto.ConfirmSaleRequest{
			Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
	}

	resp, err := h.report.Unified(ctx, dto.UnifiedFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
}

func TestSummaryNetsPerCustomer(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)
	otherID := addCustomer(t, h.ledger, "Ram")

	// Sita: 200 issued on credit, 150 recovered later — net +50 new credit.
	_, err := h.khata.AddItems(ctx, h.customerID, []dto.LineItemRequest{lineReq(h.itemID, "Rice", 2, 100)}, "")
	require.NoError(t, err)
	_, err = h.khata.Settle(ctx, h.customerID, dto.SettleRequest{
		AmountPaid:    decimal.NewFromInt(150),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// Ram: pays 100 against old debt seeded before the report window (the
	// seed entry carries a zero date), so his net is a pure recovery.
	seedDebt(t, h.ledger, otherID, 100)
	_, err = h.khata.Settle(ctx, otherID, dto.SettleRequest{
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: "qr",
	})
	require.NoError(t, err)

	// Walk-in sale for 100 cash.
	_, err = h.sales.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	resp, err := h.report.Summary(ctx, today, today)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(250).Equal(resp.CashIn), "150 recovery + 100 walk-in")
	assert.True(t, decimal.NewFromInt(100).Equal(resp.QRIn))
	assert.True(t, decimal.NewFromInt(50).Equal(resp.NetNewCredit), "Sita netted, not gross")
	assert.True(t, decimal.NewFromInt(100).Equal(resp.DebtRecovered), "Ram's recovery not cancelled by Sita")
	assert.Len(t, resp.Customers, 2)
}

func TestDeleteUnifiedRouting(t *testing.T) {
	ctx := context.Background()
	h := newReportFixture(t)

	saleResp, err := h.sales.ConfirmSale(ctx, dto.ConfirmSaleRequest{
		Items:         []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	settleResp, err := h.khata.AddItems(ctx, h.customerID, []dto.LineItemRequest{lineReq(h.itemID, "Rice", 1, 100)}, "")
	require.NoError(t, err)

	saleID := uuid.MustParse(saleResp.ID)
	entryID := uuid.MustParse(settleResp.Debit.ID)
	customerStr := h.customerID.String()

	// Khata deletion without a customer id cannot be routed.
	err = h.report.DeleteUnified(ctx, entryID, dto.DeleteUnifiedRequest{Origin: "khata"})
	assert.Error(t, err)

	require.NoError(t, h.report.DeleteUnified(ctx, saleID, dto.DeleteUnifiedRequest{Origin: "sale"}))
	require.NoError(t, h.report.DeleteUnified(ctx, entryID, dto.DeleteUnifiedRequest{
		Origin:     "khata",
		CustomerID: &customerStr,
	}))

	resp, err := h.report.Unified(ctx, dto.UnifiedFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)

	err = h.report.DeleteUnified(ctx, saleID, dto.DeleteUnifiedRequest{Origin: "nonsense"})
	assert.Error(t, err)
}
