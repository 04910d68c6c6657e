package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khatapos/internal/dto"
	"khatapos/internal/infra"
	"khatapos/internal/model"
)

func testInventory(names ...string) []model.InventoryItem {
	items := make([]model.InventoryItem, 0, len(names))
	for _, n := range names {
		items = append(items, model.InventoryItem{Name: n, Price: decimal.NewFromInt(100)})
	}
	return items
}

func TestResolveItemNameExactCaseInsensitive(t *testing.T) {
	inv := testInventory("Wai Wai Noodles", "Sugar")
	got := resolveItemName(inv, "wai wai noodles")
	require.NotNil(t, got)
	assert.Equal(t, "Wai Wai Noodles", got.Name)
}

func TestResolveItemNameStripsParenthetical(t *testing.T) {
	inv := testInventory("Rice (Mansuli)")
	got := resolveItemName(inv, "rice")
	require.NotNil(t, got)
	assert.Equal(t, "Rice (Mansuli)", got.Name)
}

func TestResolveItemNameFirstTokenSubstring(t *testing.T) {
	inv := testInventory("Cooking Oil", "Sugar")
	got := resolveItemName(inv, "oil one litre")
	require.NotNil(t, got)
	assert.Equal(t, "Cooking Oil", got.Name)
}

func TestResolveItemNameAmbiguousStaysUnlinked(t *testing.T) {
	inv := testInventory("Sunflower Oil", "Mustard Oil")
	assert.Nil(t, resolveItemName(inv, "oil"), "two candidates, refuse to guess")
	assert.Nil(t, resolveItemName(inv, "ghee"), "no candidate")
	assert.Nil(t, resolveItemName(inv, "ox cart"), "short first token never substring-matches")
}

func TestNormalizeToleratesGarbledNumbers(t *testing.T) {
	// The seed catalog stocks Sugar at 100.
	ledger := newTestLedger(t)
	svc := &parseService{ledger: ledger}

	resp := svc.normalize([]infra.ParsedLine{
		{Name: "Sugar", Quantity: "2", Price: "90"},
		{Name: "Sugar", Quantity: "two", Price: ""},  // garbled → qty 1, catalog price
		{Name: "Sugar", Quantity: "-3", Price: "-5"}, // negative → qty 1, price 0 → catalog
		{Name: "", Quantity: "1", Price: "10"},       // nameless → dropped
		{Name: "Mystery Spice", Quantity: "1", Price: "40"},
	})

	require.Len(t, resp.Items, 4)

	assert.True(t, resp.Items[0].Linked)
	assert.True(t, decimal.NewFromInt(2).Equal(resp.Items[0].Quantity))
	assert.True(t, decimal.NewFromInt(90).Equal(resp.Items[0].Price), "explicit price wins")

	assert.True(t, decimal.NewFromInt(1).Equal(resp.Items[1].Quantity))
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Items[1].Price), "zero price filled from catalog")

	assert.True(t, decimal.NewFromInt(1).Equal(resp.Items[2].Quantity))
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Items[2].Price))

	last := resp.Items[3]
	assert.False(t, last.Linked)
	assert.Nil(t, last.InventoryID)
	assert.Equal(t, "Mystery Spice", last.Name)
	assert.True(t, decimal.NewFromInt(40).Equal(last.Price), "unlinked keeps its own price")
}

func TestParseVoiceFastFailsWhenBreakerOpen(t *testing.T) {
	ledger := newTestLedger(t)
	breaker := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1})
	require.Error(t, breaker.Execute(func() error { return errors.New("upstream down") }))

	svc := NewParseService(nil, breaker, ledger)
	_, err := svc.ParseVoice(context.Background(), dto.ParseVoiceRequest{Text: "doodh ek litre"})
	assert.ErrorIs(t, err, ErrParserUnavailable)

	_, err = svc.ParseImage(context.Background(), dto.ParseImageRequest{ImageBase64: "aGVsbG8="})
	assert.ErrorIs(t, err, ErrParserUnavailable)
}
