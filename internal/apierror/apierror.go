// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, parser payloads, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// StockConflictError is the envelope for an insufficient-stock rejection.
// The whole batch was aborted; nothing was mutated.
type StockConflictError struct {
	Detail    string `json:"detail"`
	Item      string `json:"item"`
	Requested string `json:"requested"`
	Available string `json:"available"`
}

func NewStockConflict(item, requested, available string) *StockConflictError {
	return &StockConflictError{
		Detail:    "Insufficient stock for " + item,
		Item:      item,
		Requested: requested,
		Available: available,
	}
}
