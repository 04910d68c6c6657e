package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCustomerNotFound = errors.New("khata customer not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrEntryNotFound    = errors.New("khata entry not found")
	ErrItemNotFound     = errors.New("inventory item not found")
)

// InsufficientStockError names the first offending line of a rejected
// deduction. Returned as a value, never panicked — callers chain on it to
// abort a settlement before any ledger write.
type InsufficientStockError struct {
	ItemName  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %s, available %s",
		e.ItemName, e.Requested, e.Available)
}
