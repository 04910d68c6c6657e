package worker

// receipt_worker.go
// Renders a thermal-format PDF receipt for a completed sale.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"khatapos/internal/infra"
	"khatapos/internal/model"
	"khatapos/internal/store"
)

// ReceiptWorker processes receipt jobs from QueueReceipt.
type ReceiptWorker struct {
	ledger         *store.LedgerStore
	shopName       string
	pdfStoragePath string
}

func NewReceiptWorker(ledger *store.LedgerStore, shopName, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{ledger: ledger, shopName: shopName, pdfStoragePath: pdfStoragePath}
}

// Process renders the PDF. A sale deleted between enqueue and dequeue is not
// an error: the receipt is simply no longer wanted.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	sale := findSale(w.ledger.Snapshot(), saleID)
	if sale == nil {
		log.Warn().Str("sale_id", payload.SaleID).Msg("receipt_worker: sale no longer exists, skipping")
		return nil
	}

	path, err := infra.GenerateReceiptPDF(sale, w.shopName, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("receipt_worker: render failed: %w", err)
	}
	log.Info().Str("sale_id", payload.SaleID).Str("pdf", path).Msg("receipt_worker: receipt generated")
	return nil
}

func findSale(st *store.State, id uuid.UUID) *model.Sale {
	for i := range st.Sales {
		if st.Sales[i].ID == id {
			return &st.Sales[i]
		}
	}
	return nil
}
