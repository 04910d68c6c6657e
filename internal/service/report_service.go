package service

// report_service.go holds the unified transaction view and financial summaries.
// Both are pure projections over a store snapshot: recomputed on every read,
// never cached, so they can never drift from the source ledgers.

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khatapos/internal/dto"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// paidEpsilon: a debit whose remaining due is below one paisa was fully paid
// at issuance and contributes nothing outstanding to the unified view.
var paidEpsilon = decimal.NewFromFloat(0.01)

type ReportService interface {
	Unified(ctx context.Context, filter dto.UnifiedFilter) (*dto.UnifiedListResponse, error)
	Summary(ctx context.Context, from, to string) (*dto.SummaryResponse, error)
	DeleteUnified(ctx context.Context, id uuid.UUID, req dto.DeleteUnifiedRequest) error
}

type reportService struct {
	ledger *store.LedgerStore
	sales  SalesService
	khata  KhataService
}

func NewReportService(ledger *store.LedgerStore, sales SalesService, khata KhataService) ReportService {
	return &reportService{ledger: ledger, sales: sales, khata: khata}
}

// Unified merges the sales log and every customer's debit entries into one
// reverse-chronological feed.
func (s *reportService) Unified(ctx context.Context, filter dto.UnifiedFilter) (*dto.UnifiedListResponse, error) {
	from, to, err := parseDateRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	st := s.ledger.Snapshot()
	rows := projectUnified(st)
	rows = filterByDate(rows, from, to)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return &dto.UnifiedListResponse{Data: rows, Total: len(rows)}, nil
}

// projectUnified builds the raw merged rows (unsorted, unfiltered).
func projectUnified(st *store.State) []model.UnifiedTransaction {
	rows := make([]model.UnifiedTransaction, 0, len(st.Sales))

	// Sales log rows. A mirror of a khata payment is a "recovery" unless the
	// settlement also billed new goods; a compound stays classified as a
	// sale so the payment is not double counted as recovered debt.
	for i := range st.Sales {
		sale := &st.Sales[i]
		source := model.SourceSales
		total := sale.Amount
		if sale.KhataCustomerID != nil && !sale.Meta.Compound() {
			source = model.SourceRecovery
			// Pure recovery moves no goods: only paid matters for money-in.
			total = decimal.Zero
		}
		rows = append(rows, model.UnifiedTransaction{
			ID:           sale.ID,
			Type:         sale.PaymentMethod,
			CustomerName: sale.CustomerName,
			Amount:       sale.Amount,
			Date:         sale.Date,
			Items:        sale.Items,
			Origin:       model.OriginSale,
			CustomerID:   sale.KhataCustomerID,
			TotalAmount:  total,
			PaidAmount:   sale.Amount,
			Source:       source,
			Meta:         sale.Meta,
		})
	}

	// Khata debit rows only. Credit entries are absorbed into the mirror
	// sales rows (or into remaining-due math); listing them separately
	// would double count the money. The row amount is the unpaid remainder;
	// a bill fully paid at issuance is dropped entirely.
	for i := range st.Customers {
		c := &st.Customers[i]
		for j := range c.Entries {
			e := &c.Entries[j]
			if e.Type != model.EntryDebit {
				continue
			}
			remaining := e.Amount
			paid := decimal.Zero
			if e.ImmediatePayment != nil {
				paid = *e.ImmediatePayment
				remaining = remaining.Sub(paid)
			}
			if remaining.LessThan(paidEpsilon) {
				continue
			}
			cid := c.ID
			rows = append(rows, model.UnifiedTransaction{
				ID:           e.ID,
				Type:         model.PayCredit,
				CustomerName: c.Name,
				Amount:       remaining,
				Date:         e.Date,
				Description:  e.Description,
				Items:        e.Items,
				Origin:       model.OriginKhata,
				CustomerID:   &cid,
				TotalAmount:  e.Amount,
				PaidAmount:   paid,
				Source:       model.SourceSales,
				Meta:         e.Meta,
			})
		}
	}
	return rows
}

// Summary walks a date-filtered unified slice once, accumulating per
// customer credit issued vs payments recovered. Netting per customer first
// avoids counting a same-day issue-and-partial-pay as both new credit and
// recovered debt.
func (s *reportService) Summary(ctx context.Context, from, to string) (*dto.SummaryResponse, error) {
	fromT, toT, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	st := s.ledger.Snapshot()
	rows := filterByDate(projectUnified(st), fromT, toT)

	type acc struct {
		name         string
		creditIssued decimal.Decimal
		payment      decimal.Decimal
	}
	perCustomer := map[uuid.UUID]*acc{}
	order := []uuid.UUID{}

	cashIn, qrIn := decimal.Zero, decimal.Zero
	for i := range rows {
		row := &rows[i]
		switch row.Type {
		case model.PayCash:
			cashIn = cashIn.Add(row.PaidAmount)
		case model.PayQR:
			qrIn = qrIn.Add(row.PaidAmount)
		}

		if row.CustomerID == nil {
			continue
		}
		a, ok := perCustomer[*row.CustomerID]
		if !ok {
			a = &acc{name: row.CustomerName, creditIssued: decimal.Zero, payment: decimal.Zero}
			perCustomer[*row.CustomerID] = a
			order = append(order, *row.CustomerID)
		}
		switch {
		case row.Source == model.SourceSales && row.Type == model.PayCredit:
			a.creditIssued = a.creditIssued.Add(row.Amount)
		case row.Source == model.SourceRecovery:
			a.payment = a.payment.Add(row.PaidAmount)
		}
	}

	resp := &dto.SummaryResponse{
		From:          from,
		To:            to,
		CashIn:        cashIn,
		QRIn:          qrIn,
		NetNewCredit:  decimal.Zero,
		DebtRecovered: decimal.Zero,
	}
	for _, id := range order {
		a := perCustomer[id]
		net := a.creditIssued.Sub(a.payment)
		if net.IsPositive() {
			resp.NetNewCredit = resp.NetNewCredit.Add(net)
		} else {
			resp.DebtRecovered = resp.DebtRecovered.Add(net.Neg())
		}
		resp.Customers = append(resp.Customers, dto.CustomerCreditSummary{
			CustomerName: a.name,
			CreditIssued: a.creditIssued,
			Payment:      a.payment,
			Net:          net,
		})
	}
	return resp, nil
}

// DeleteUnified routes a deletion to the backing store named by the row's
// origin. A khata row must carry its customer id: the entry lives inside
// that customer's sub-ledger, never in the sales log.
func (s *reportService) DeleteUnified(ctx context.Context, id uuid.UUID, req dto.DeleteUnifiedRequest) error {
	switch model.UnifiedOrigin(req.Origin) {
	case model.OriginSale:
		return s.sales.DeleteSale(ctx, id)
	case model.OriginKhata:
		if req.CustomerID == nil {
			return errors.New("khata deletion requires customer_id")
		}
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return errors.New("invalid customer_id")
		}
		return s.khata.DeleteEntry(ctx, customerID, id)
	default:
		return errors.New("unknown original_type")
	}
}



func parseDateRange(from, to string) (time.Time, time.Time, error) {
	var fromT, toT time.Time
	var err error
	if from != "" {
		fromT, err = time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return fromT, toT, errors.New("invalid from date, expected YYYY-MM-DD")
		}
	}
	if to != "" {
		toT, err = time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return fromT, toT, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		toT = toT.Add(24*time.Hour - time.Nanosecond) // inclusive upper bound
	}
	return fromT, toT, nil
}

func filterByDate(rows []model.UnifiedTransaction, from, to time.Time) []model.UnifiedTransaction {
	if from.IsZero() && to.IsZero() {
		return rows
	}
	out := rows[:0]
	for _, r := range rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
