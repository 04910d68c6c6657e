// Package store owns the shop's ledger state: the inventory, the sales
// transaction log, and every customer's credit sub-ledger. It is the single
// writer boundary — all mutations go through Update, which applies a pure
// function to a copy of the current state and swaps it in only on success.
// Persistence is whole-collection JSON under fixed keys in a KV backend.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"khatapos/internal/model"
)

// LedgerStore holds the live collections and their persistence boundary.
type LedgerStore struct {
	kv KV

	mu    sync.Mutex
	state *State
}

func New(kv KV) *LedgerStore {
	return &LedgerStore{kv: kv, state: &State{Language: DefaultLanguage}}
}

// Open loads every collection from the KV backend. A payload that is missing
// or fails its shape validator is logged and replaced with seed data — the
// store self-heals rather than crashing on corrupt persisted state.
func (s *LedgerStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &State{}
	st.Inventory = loadCollection(ctx, s.kv, KeyInventory, validateInventory, SeedInventory)
	st.Sales = loadCollection(ctx, s.kv, KeySales, validateSales, func() []model.Sale { return []model.Sale{} })
	st.Customers = loadCollection(ctx, s.kv, KeyCustomers, validateCustomers, func() []model.KhataCustomer { return []model.KhataCustomer{} })
	st.Language = loadLanguage(ctx, s.kv)

	s.state = st
	return nil
}

func loadCollection[T any](ctx context.Context, kv KV, key string, validate func([]byte) error, seed func() []T) []T {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if err != ErrKeyNotFound {
			log.Warn().Err(err).Str("key", key).Msg("store: read failed, using seed data")
		}
		return seed()
	}
	if err := validate(raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: stored payload failed validation, using seed data")
		return seed()
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: unmarshal failed, using seed data")
		return seed()
	}
	return out
}

func loadLanguage(ctx context.Context, kv KV) string {
	raw, err := kv.Get(ctx, KeyLanguage)
	if err != nil {
		return DefaultLanguage
	}
	var lang string
	if err := json.Unmarshal(raw, &lang); err != nil || !validLanguage(lang) {
		log.Warn().Str("key", KeyLanguage).Msg("store: invalid language preference, using default")
		return DefaultLanguage
	}
	return lang
}

// Update is the only mutation path. fn receives a deep copy of the current
// state; it reports which collections it touched. On success the touched
// collections are persisted back-to-back (no suspension between the writes)
// and the copy becomes the current state. On error nothing changes.
//
// There is exactly one logical writer at a time — the mutex serializes
// concurrent HTTP requests so every fn sees read-after-write-consistent
// state and the two-phase stock checks can never go stale.
func (s *LedgerStore) Update(ctx context.Context, fn func(st *State) (Dirty, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	dirty, err := fn(next)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, next, dirty); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Snapshot returns a deep copy for reads and projections. Derived views are
// always computed over a snapshot so they cannot drift from, or alias, the
// live ledgers.
func (s *LedgerStore) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *LedgerStore) persist(ctx context.Context, st *State, dirty Dirty) error {
	type write struct {
		flag Dirty
		key  string
		val  any
	}
	writes := []write{
		{DirtyInventory, KeyInventory, st.Inventory},
		{DirtySales, KeySales, st.Sales},
		{DirtyCustomers, KeyCustomers, st.Customers},
		{DirtyLanguage, KeyLanguage, st.Language},
	}
	for _, w := range writes {
		if dirty&w.flag == 0 {
			continue
		}
		raw, err := json.Marshal(w.val)
		if err != nil {
			return fmt.Errorf("store: marshal %s: %w", w.key, err)
		}
		if err := s.kv.Put(ctx, w.key, raw); err != nil {
			return fmt.Errorf("store: persist %s: %w", w.key, err)
		}
	}
	return nil
}

// Ping verifies the KV backend is reachable (health endpoint support).
func (s *LedgerStore) Ping(ctx context.Context) error {
	_, err := s.kv.Get(ctx, KeyLanguage)
	if err == ErrKeyNotFound {
		return nil
	}
	return err
}
