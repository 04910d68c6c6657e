package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
	"khatapos/internal/worker"
)

// SalesService owns the plain sales transaction log: append-only, deletable,
// never edited in place — an amendment is a delete plus a re-create.
type SalesService interface {
	ConfirmSale(ctx context.Context, req dto.ConfirmSaleRequest) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type salesService struct {
	ledger     *store.LedgerStore
	dispatcher *worker.Dispatcher
}

func NewSalesService(ledger *store.LedgerStore, dispatcher *worker.Dispatcher) SalesService {
	return &salesService{ledger: ledger, dispatcher: dispatcher}
}

// ConfirmSale commits a completed sale in one atomic update: stock deduction
// plus the log append. Cash/QR sales go to the sales log; a credit sale with
// a khata customer becomes a bare debit entry in that customer's sub-ledger
// (goods fully on credit, no payment tracked).
func (s *salesService) ConfirmSale(ctx context.Context, req dto.ConfirmSaleRequest) (*dto.SaleResponse, error) {
	items, err := lineItemsFromRequest(req.Items)
	if err != nil {
		return nil, err
	}
	method := model.PaymentMethod(req.PaymentMethod)

	if method == model.PayCredit {
		if req.KhataCustomerID == nil {
			return nil, errors.New("credit sale requires a khata customer")
		}
		customerID, err := uuid.Parse(*req.KhataCustomerID)
		if err != nil {
			return nil, errors.New("invalid khata customer id")
		}
		return s.confirmCreditSale(ctx, customerID, items)
	}

	now := time.Now()
	sale := model.Sale{
		ID:            uuid.New(),
		CustomerName:  req.CustomerName,
		Amount:        billTotal(items),
		Date:          now,
		Items:         items,
		PaymentMethod: method,
	}

	err = s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		if stockErr := applyDeductStock(st, items, now); stockErr != nil {
			return 0, stockErr
		}
		st.Sales = append([]model.Sale{sale}, st.Sales...)
		return store.DirtyInventory | store.DirtySales, nil
	})
	if err != nil {
		return nil, err
	}

	// Receipt generation is best-effort and asynchronous.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{SaleID: sale.ID.String()})
	}
	return saleToResponse(&sale), nil
}

// confirmCreditSale writes the bare debit entry: full bill on the khata.
func (s *salesService) confirmCreditSale(ctx context.Context, customerID uuid.UUID, items []model.LineItem) (*dto.SaleResponse, error) {
	now := time.Now()
	total := billTotal(items)
	entry := model.KhataEntry{
		ID:          uuid.New(),
		Date:        now,
		Description: "Goods on credit",
		Amount:      total,
		Type:        model.EntryDebit,
		Items:       items,
	}

	var customerName string
	err := s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		customer := findCustomer(st, customerID)
		if customer == nil {
			return 0, ErrCustomerNotFound
		}
		if stockErr := applyDeductStock(st, items, now); stockErr != nil {
			return 0, stockErr
		}
		customer.Entries = append([]model.KhataEntry{entry}, customer.Entries...)
		customerName = customer.Name
		return store.DirtyInventory | store.DirtyCustomers, nil
	})
	if err != nil {
		return nil, err
	}

	idStr := customerID.String()
	return &dto.SaleResponse{
		ID:              entry.ID.String(),
		CustomerName:    customerName,
		Amount:          total,
		Date:            now.Format(time.RFC3339),
		Items:           items,
		PaymentMethod:   string(model.PayCredit),
		KhataCustomerID: &idStr,
	}, nil
}

// DeleteSale removes the entry and reverses its items back into inventory.
func (s *salesService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		for i := range st.Sales {
			if st.Sales[i].ID != id {
				continue
			}
			restoreItems(st, st.Sales[i].Items, time.Now())
			st.Sales = append(st.Sales[:i], st.Sales[i+1:]...)
			return store.DirtyInventory | store.DirtySales, nil
		}
		return 0, ErrSaleNotFound
	})
}

func (s *salesService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	st := s.ledger.Snapshot()
	matched := make([]model.Sale, 0, len(st.Sales))
	for _, sale := range st.Sales {
		if filter.Date != "" && sale.Date.Format("2006-01-02") != filter.Date {
			continue
		}
		matched = append(matched, sale)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	data := make([]dto.SaleResponse, 0, end-start)
	for i := start; i < end; i++ {
		data = append(data, *saleToResponse(&matched[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// lineItemsFromRequest converts DTO lines, coercing garbage to safe zeros:
// a malformed inventory id unlinks the line, a negative quantity or price
// becomes zero.
func lineItemsFromRequest(reqs []dto.LineItemRequest) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(reqs))
	for _, r := range reqs {
		qty := r.Quantity
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		price := r.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		items = append(items, model.LineItem{
			InventoryID: parseOptionalUUID(r.InventoryID),
			Name:        r.Name,
			Quantity:    qty,
			Price:       price,
		})
	}
	return items, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID.String(),
		CustomerName:  sale.CustomerName,
		Amount:        sale.Amount,
		Date:          sale.Date.Format(time.RFC3339),
		Items:         sale.Items,
		PaymentMethod: string(sale.PaymentMethod),
		Meta:          sale.Meta,
	}
	if sale.KhataCustomerID != nil {
		id := sale.KhataCustomerID.String()
		resp.KhataCustomerID = &id
	}
	return resp
}
