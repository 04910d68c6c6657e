package service

// khata_service.go — the credit sub-ledger and the settlement reconciler.
//
// A settlement is one user action that may bill new goods AND record a
// payment. The reconciler splits it into a debit entry (goods issued) and a
// credit entry (payment received), stamps both with provenance (previous and
// remaining due), deducts stock, and mirrors the collected money into the
// sales log — all inside a single LedgerStore.Update, so the three
// collections move together or not at all.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
	"khatapos/internal/worker"
)

// creditEntryOffset orders the auto-generated payment entry strictly after
// the debit it pairs with, so chronological sorts always show "goods issued"
// before "payment for it" even though both happen in one call.
const creditEntryOffset = time.Second

type KhataService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) (*dto.CustomerListResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)

	// Settle bills req.Items (possibly empty) and applies req.AmountPaid
	// (possibly zero) against the customer's khata.
	Settle(ctx context.Context, customerID uuid.UUID, req dto.SettleRequest) (*dto.SettleResponse, error)
	// AddItems issues goods on credit with zero immediate payment.
	AddItems(ctx context.Context, customerID uuid.UUID, items []dto.LineItemRequest, description string) (*dto.SettleResponse, error)

	DeleteEntry(ctx context.Context, customerID, entryID uuid.UUID) error
	EnqueueStatement(ctx context.Context, customerID uuid.UUID, email string) error
}

type khataService struct {
	ledger     *store.LedgerStore
	dispatcher *worker.Dispatcher
}

func NewKhataService(ledger *store.LedgerStore, dispatcher *worker.Dispatcher) KhataService {
	return &khataService{ledger: ledger, dispatcher: dispatcher}
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *khataService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := model.KhataCustomer{
		ID:          uuid.New(),
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		PAN:         req.PAN,
		Citizenship: req.Citizenship,
		Entries:     []model.KhataEntry{},
	}
	err := s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		st.Customers = append(st.Customers, customer)
		return store.DirtyCustomers, nil
	})
	if err != nil {
		return nil, err
	}
	return customerToResponse(&customer, false), nil
}

func (s *khataService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	var updated *model.KhataCustomer
	err := s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		customer := findCustomer(st, id)
		if customer == nil {
			return 0, ErrCustomerNotFound
		}
		customer.Name = req.Name
		customer.Phone = req.Phone
		customer.Address = req.Address
		customer.PAN = req.PAN
		customer.Citizenship = req.Citizenship
		copied := *customer
		updated = &copied
		return store.DirtyCustomers, nil
	})
	if err != nil {
		return nil, err
	}
	return customerToResponse(updated, false), nil
}

func (s *khataService) ListCustomers(ctx context.Context) (*dto.CustomerListResponse, error) {
	st := s.ledger.Snapshot()
	data := make([]dto.CustomerResponse, 0, len(st.Customers))
	for i := range st.Customers {
		data = append(data, *customerToResponse(&st.Customers[i], false))
	}
	return &dto.CustomerListResponse{Data: data, Total: len(data)}, nil
}

func (s *khataService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	st := s.ledger.Snapshot()
	for i := range st.Customers {
		if st.Customers[i].ID == id {
			return customerToResponse(&st.Customers[i], true), nil
		}
	}
	return nil, ErrCustomerNotFound
}

// ── Settlement reconciler ────────────────────────────────────────────────────

func (s *khataService) Settle(ctx context.Context, customerID uuid.UUID, req dto.SettleRequest) (*dto.SettleResponse, error) {
	items, err := lineItemsFromRequest(req.Items)
	if err != nil {
		return nil, err
	}
	amountPaid := req.AmountPaid
	if amountPaid.IsNegative() {
		amountPaid = decimal.Zero
	}
	method := model.PaymentMethod(req.PaymentMethod)
	if method != model.PayCash && method != model.PayQR {
		method = model.PayCash
	}

	var resp *dto.SettleResponse
	err = s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		customer := findCustomer(st, customerID)
		if customer == nil {
			return 0, ErrCustomerNotFound
		}

		now := time.Now()

		// 1. Deduct stock for the new bill. Aborts the whole settlement on a
		// structured failure — no ledger entry is ever written for a bill
		// the shop cannot fulfil.
		if stockErr := applyDeductStock(st, items, now); stockErr != nil {
			return 0, stockErr
		}

		// 2–3. Bill total and the balance before this settlement. The
		// balance is read from the same in-flight state the entries will be
		// appended to, so it is read-after-write consistent by construction.
		total := billTotal(items)
		previousBalance := customer.Balance()
		balanceAfterBill := previousBalance.Add(total)
		remainingDue := balanceAfterBill.Sub(amountPaid)

		dirty := store.DirtyCustomers
		var debit, credit *model.KhataEntry

		// 4. Debit entry: goods issued. ImmediatePayment preserves how much
		// of this specific bill was paid on the spot.
		if len(items) > 0 {
			paid := amountPaid
			debit = &model.KhataEntry{
				ID:               uuid.New(),
				Date:             now,
				Description:      settleDescription(req.Description, items),
				Amount:           total,
				Type:             model.EntryDebit,
				Items:            items,
				ImmediatePayment: &paid,
				Meta: &model.ProvenanceMeta{
					PreviousDue:  previousBalance,
					RemainingDue: balanceAfterBill,
				},
			}
			dirty |= store.DirtyInventory
		}

		// 5. Credit entry: payment received, dated strictly after the debit.
		// RemainingDue may go negative — the customer holds an advance.
		if amountPaid.IsPositive() {
			credit = &model.KhataEntry{
				ID:            uuid.New(),
				Date:          now.Add(creditEntryOffset),
				Description:   "Payment received",
				Amount:        amountPaid,
				Type:          model.EntryCredit,
				AutoGenerated: debit != nil,
				Meta: &model.ProvenanceMeta{
					PreviousDue:  balanceAfterBill,
					RemainingDue: remainingDue,
				},
			}
		}

		// 6. Prepend — list order stays newest-first by insertion.
		if debit != nil {
			customer.Entries = append([]model.KhataEntry{*debit}, customer.Entries...)
		}
		if credit != nil {
			customer.Entries = append([]model.KhataEntry{*credit}, customer.Entries...)
		}

		// 7. Mirror the collected money into the sales log so customer-
		// agnostic reporting sees the cash/QR that actually came in. No
		// mirror for a zero payment, and no items on the mirror — the debit
		// entry owns the goods and their reversal.
		if amountPaid.IsPositive() {
			cid := customerID
			mirror := model.Sale{
				ID:              uuid.New(),
				CustomerName:    customer.Name,
				Amount:          amountPaid,
				Date:            now,
				PaymentMethod:   method,
				KhataCustomerID: &cid,
				Meta: &model.ProvenanceMeta{
					PreviousDue:  balanceAfterBill,
					RemainingDue: remainingDue,
					BillTotal:    total,
				},
			}
			st.Sales = append([]model.Sale{mirror}, st.Sales...)
			dirty |= store.DirtySales
		}

		resp = &dto.SettleResponse{
			CustomerID:   customerID.String(),
			BillTotal:    total,
			AmountPaid:   amountPaid,
			PreviousDue:  balanceAfterBill,
			RemainingDue: remainingDue,
			Balance:      customer.Balance(),
		}
		if debit != nil {
			resp.Debit = entryToResponse(debit)
		}
		if credit != nil {
			resp.Credit = entryToResponse(credit)
		}
		return dirty, nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AddItems is the simpler path: goods issued on credit, nothing paid now.
func (s *khataService) AddItems(ctx context.Context, customerID uuid.UUID, items []dto.LineItemRequest, description string) (*dto.SettleResponse, error) {
	return s.Settle(ctx, customerID, dto.SettleRequest{
		Items:         items,
		AmountPaid:    decimal.Zero,
		PaymentMethod: string(model.PayCash),
		Description:   description,
	})
}

// DeleteEntry removes one entry from the customer's sub-ledger and reverses
// its items into inventory — symmetric to sales-log deletion, scoped to one
// customer.
func (s *khataService) DeleteEntry(ctx context.Context, customerID, entryID uuid.UUID) error {
	return s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		customer := findCustomer(st, customerID)
		if customer == nil {
			return 0, ErrCustomerNotFound
		}
		for i := range customer.Entries {
			if customer.Entries[i].ID != entryID {
				continue
			}
			restoreItems(st, customer.Entries[i].Items, time.Now())
			customer.Entries = append(customer.Entries[:i], customer.Entries[i+1:]...)
			return store.DirtyInventory | store.DirtyCustomers, nil
		}
		return 0, ErrEntryNotFound
	})
}

// EnqueueStatement asks the worker pool to render and mail the statement.
func (s *khataService) EnqueueStatement(ctx context.Context, customerID uuid.UUID, email string) error {
	st := s.ledger.Snapshot()
	if findCustomer(st, customerID) == nil {
		return ErrCustomerNotFound
	}
	if s.dispatcher == nil {
		return fmt.Errorf("statement delivery unavailable: no job queue configured")
	}
	return s.dispatcher.EnqueueStatement(ctx, worker.StatementPayload{
		CustomerID: customerID.String(),
		Email:      email,
	})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func settleDescription(explicit string, items []model.LineItem) string {
	if explicit != "" {
		return explicit
	}
	if len(items) == 1 {
		return items[0].Name
	}
	return fmt.Sprintf("%d items billed", len(items))
}

func customerToResponse(c *model.KhataCustomer, includeEntries bool) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Address:     c.Address,
		PAN:         c.PAN,
		Citizenship: c.Citizenship,
		Balance:     c.Balance(),
	}
	if includeEntries {
		resp.Entries = make([]dto.EntryResponse, 0, len(c.Entries))
		for i := range c.Entries {
			resp.Entries = append(resp.Entries, *entryToResponse(&c.Entries[i]))
		}
	}
	return resp
}

func entryToResponse(e *model.KhataEntry) *dto.EntryResponse {
	return &dto.EntryResponse{
		ID:               e.ID.String(),
		Date:             e.Date.Format(time.RFC3339),
		Description:      e.Description,
		Amount:           e.Amount,
		Type:             string(e.Type),
		Items:            e.Items,
		ImmediatePayment: e.ImmediatePayment,
		AutoGenerated:    e.AutoGenerated,
		Meta:             e.Meta,
	}
}
