package dto

import (
	"github.com/shopspring/decimal"

	"khatapos/internal/model"
)

// UnifiedFilter is bound from the query string of GET /v1/transactions.
type UnifiedFilter struct {
	From  string `form:"from"`  // YYYY-MM-DD inclusive; empty = no lower bound
	To    string `form:"to"`    // YYYY-MM-DD inclusive; empty = no upper bound
	Limit int    `form:"limit"` // 0 = unlimited; "recent activity" widgets pass a small N
}

type UnifiedListResponse struct {
	Data  []model.UnifiedTransaction `json:"data"`
	Total int                        `json:"total"`
}

// DeleteUnifiedRequest routes a unified-row deletion to its backing store.
type DeleteUnifiedRequest struct {
	Origin     string  `json:"original_type" validate:"required,oneof=sale khata"`
	CustomerID *string `json:"customer_id"   validate:"omitempty,uuid"`
}

// CustomerCreditSummary is one customer's net position over the report window.
type CustomerCreditSummary struct {
	CustomerName string          `json:"customer_name"`
	CreditIssued decimal.Decimal `json:"credit_issued"`
	Payment      decimal.Decimal `json:"payment"`
	Net          decimal.Decimal `json:"net"`
}

type SummaryResponse struct {
	From          string                  `json:"from,omitempty"`
	To            string                  `json:"to,omitempty"`
	CashIn        decimal.Decimal         `json:"cash_in"`
	QRIn          decimal.Decimal         `json:"qr_in"`
	NetNewCredit  decimal.Decimal         `json:"net_new_credit"`
	DebtRecovered decimal.Decimal         `json:"debt_recovered"`
	Customers     []CustomerCreditSummary `json:"customers"`
}

// SetLanguageRequest persists the owner's UI language preference.
type SetLanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=en ne hi"`
}
