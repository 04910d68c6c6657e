package dto

import "github.com/shopspring/decimal"

type ParseVoiceRequest struct {
	Text     string `json:"text"     validate:"required"`
	Language string `json:"language" validate:"omitempty,oneof=en ne hi"`
}

type ParseImageRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	Language    string `json:"language"     validate:"omitempty,oneof=en ne hi"`
}

// ParsedItemResponse is one normalized line. Linked reports whether the name
// resolved to a stocked item; an unlinked line can still be billed free-text
// with no stock effect.
type ParsedItemResponse struct {
	InventoryID *string         `json:"inventory_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Linked      bool            `json:"linked"`
}

type ParseResponse struct {
	Items        []ParsedItemResponse `json:"items"`
	CustomerName string               `json:"customer_name,omitempty"`
}
