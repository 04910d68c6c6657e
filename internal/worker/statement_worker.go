package worker

// statement_worker.go
// Renders a customer's khata statement PDF and mails it via SMTP.

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

// StatementWorker processes statement jobs from QueueStatement.
type StatementWorker struct {
	ledger         *store.LedgerStore
	mailer         *infra.Mailer
	shopName       string
	pdfStoragePath string
}

func NewStatementWorker(ledger *store.LedgerStore, mailer *infra.Mailer, shopName, pdfStoragePath string) *StatementWorker {
	return &StatementWorker{ledger: ledger, mailer: mailer, shopName: shopName, pdfStoragePath: pdfStoragePath}
}

func (w *StatementWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StatementPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("statement_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if payload.Email == "" {
		log.Warn().Str("customer_id", payload.CustomerID).Msg("statement_worker: empty email, skipping")
		return nil
	}

	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		log.Error().Str("customer_id", payload.CustomerID).Msg("statement_worker: invalid customer_id")
		return nil
	}

	customer := findStatementCustomer(w.ledger.Snapshot(), customerID)
	if customer == nil {
		log.Warn().Str("customer_id", payload.CustomerID).Msg("statement_worker: customer no longer exists, skipping")
		return nil
	}

	pdfPath, err := infra.GenerateStatementPDF(customer, w.shopName, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("statement_worker: render failed: %w", err)
	}

	subject := fmt.Sprintf("%s — Khata statement for %s", w.shopName, customer.Name)
	body := fmt.Sprintf("Namaste %s,\n\nPlease find your khata statement attached.\nCurrent balance: %s\n\n%s",
		customer.Name, customer.Balance().StringFixed(2), w.shopName)
	if err := w.mailer.SendStatement(payload.Email, subject, body, pdfPath); err != nil {
		return fmt.Errorf("statement_worker: send failed: %w", err)
	}

	log.Info().
		Str("customer_id", payload.CustomerID).
		Str("to", payload.Email).
		Msg("statement_worker: statement sent")
	return nil
}

func findStatementCustomer(st *store.State, id uuid.UUID) *model.KhataCustomer {
	for i := range st.Customers {
		if st.Customers[i].ID == id {
			return &st.Customers[i]
		}
	}
	return nil
}
