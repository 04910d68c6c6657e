package service

import (
	"context"

	"khatapos/internal/store"
)

// SettingsService manages shop-level preferences. Today that is only the
// UI language, persisted alongside the ledgers so it survives reinstalls.
type SettingsService interface {
	Language(ctx context.Context) string
	SetLanguage(ctx context.Context, lang string) error
}

type settingsService struct {
	ledger *store.LedgerStore
}

func NewSettingsService(ledger *store.LedgerStore) SettingsService {
	return &settingsService{ledger: ledger}
}

func (s *settingsService) Language(ctx context.Context) string {
	return s.ledger.Snapshot().Language
}

func (s *settingsService) SetLanguage(ctx context.Context, lang string) error {
	return s.ledger.Update(ctx, func(st *store.State) (store.Dirty, error) {
		st.Language = lang
		return store.DirtyLanguage, nil
	})
}
