package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"khatapos/internal/dto"
	"khatapos/internal/infra"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// ErrParserUnavailable is returned while the breaker is open: the caller
// should fall back to manual entry rather than retry in a loop.
var ErrParserUnavailable = errors.New("bill parser temporarily unavailable")

// ParseService turns raw parser output into bill lines the POS can use.
// The parser is trusted for structure only; every field is normalized here
// so one garbled line never sinks the rest of the bill.
type ParseService interface {
	ParseVoice(ctx context.Context, req dto.ParseVoiceRequest) (*dto.ParseResponse, error)
	ParseImage(ctx context.Context, req dto.ParseImageRequest) (*dto.ParseResponse, error)
	ParserState() string
}

type parseService struct {
	parser  *infra.ParserClient
	breaker *infra.CircuitBreaker
	ledger  *store.LedgerStore
}

func NewParseService(parser *infra.ParserClient, breaker *infra.CircuitBreaker, ledger *store.LedgerStore) ParseService {
	return &parseService{parser: parser, breaker: breaker, ledger: ledger}
}

func (s *parseService) ParseVoice(ctx context.Context, req dto.ParseVoiceRequest) (*dto.ParseResponse, error) {
	lang := s.language(req.Language)

	var bill *infra.ParsedBill
	err := s.breaker.Execute(func() error {
		var callErr error
		bill, callErr = s.parser.ParseVoiceText(ctx, req.Text, lang)
		return callErr
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return nil, ErrParserUnavailable
		}
		return nil, err
	}

	resp := s.normalize(bill.Items)
	resp.CustomerName = strings.TrimSpace(bill.CustomerName)
	return resp, nil
}

func (s *parseService) ParseImage(ctx context.Context, req dto.ParseImageRequest) (*dto.ParseResponse, error) {
	lang := s.language(req.Language)

	var lines []infra.ParsedLine
	err := s.breaker.Execute(func() error {
		var callErr error
		lines, callErr = s.parser.ParseBillImage(ctx, req.ImageBase64, lang)
		return callErr
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return nil, ErrParserUnavailable
		}
		return nil, err
	}

	return s.normalize(lines), nil
}

// ParserState exposes the breaker state for the health endpoint.
func (s *parseService) ParserState() string {
	return s.breaker.State().String()
}

func (s *parseService) language(reqLang string) string {
	if reqLang != "" {
		return reqLang
	}
	return s.ledger.Snapshot().Language
}

// normalize applies the tolerance rules and resolves each line against the
// inventory. Nameless lines are dropped; everything else survives with
// defaults (quantity 1, price 0) where the parser garbled a number.
func (s *parseService) normalize(lines []infra.ParsedLine) *dto.ParseResponse {
	st := s.ledger.Snapshot()
	resp := &dto.ParseResponse{Items: []dto.ParsedItemResponse{}}

	for _, line := range lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}

		qty := numberOrDefault(line.Quantity, decimal.NewFromInt(1))
		if !qty.IsPositive() {
			qty = decimal.NewFromInt(1)
		}
		price := numberOrDefault(line.Price, decimal.Zero)
		if price.IsNegative() {
			price = decimal.Zero
		}

		item := dto.ParsedItemResponse{
			Name:     name,
			Quantity: qty,
			Unit:     strings.TrimSpace(line.Unit),
			Price:    price,
		}
		if matched := resolveItemName(st.Inventory, name); matched != nil {
			id := matched.ID.String()
			item.InventoryID = &id
			item.Name = matched.Name
			item.Linked = true
			// A spoken bill rarely mentions price; fill from the catalog.
			if price.IsZero() {
				item.Price = matched.Price
			}
		} else {
			log.Debug().Str("name", name).Msg("parsed line did not match inventory")
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func numberOrDefault(n json.Number, def decimal.Decimal) decimal.Decimal {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}

// resolveItemName matches a parsed name against the inventory in three
// passes of decreasing strictness:
//  1. exact match, case-insensitive
//  2. exact match after stripping a trailing parenthetical ("Rice (Basmati)")
//  3. first token of the parsed name as a substring of the item name
//
// The first pass that yields exactly one plausible candidate wins; an
// ambiguous or empty result means unlinked, the shopkeeper confirms by hand.
func resolveItemName(inventory []model.InventoryItem, name string) *model.InventoryItem {
	lower := strings.ToLower(strings.TrimSpace(name))

	for i := range inventory {
		if strings.ToLower(inventory[i].Name) == lower {
			return &inventory[i]
		}
	}

	stripped := stripParenthetical(lower)
	if stripped != lower {
		for i := range inventory {
			if strings.ToLower(stripParenthetical(inventory[i].Name)) == stripped {
				return &inventory[i]
			}
		}
	}

	token := firstToken(lower)
	if len(token) < 3 {
		// One- and two-letter tokens match half the catalog; not worth it.
		return nil
	}
	var found *model.InventoryItem
	for i := range inventory {
		if strings.Contains(strings.ToLower(inventory[i].Name), token) {
			if found != nil {
				return nil // ambiguous
			}
			found = &inventory[i]
		}
	}
	return found
}

func stripParenthetical(s string) string {
	if idx := strings.Index(s, "("); idx > 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
