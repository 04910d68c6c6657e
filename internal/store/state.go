package store

import (
	"khatapos/internal/model"
)

// State is one consistent view of every collection the shop owns. The three
// ledgers are independent top-level collections: a Sale may reference a
// KhataCustomer by id, but nothing owns anything across them.
type State struct {
	Inventory []model.InventoryItem
	Sales     []model.Sale // newest-first by insertion
	Customers []model.KhataCustomer
	Language  string
}

// Dirty is a bitmask naming which collections a mutation touched, so commit
// only rewrites the KV keys that actually changed.
type Dirty uint8

const (
	DirtyInventory Dirty = 1 << iota
	DirtySales
	DirtyCustomers
	DirtyLanguage
)

// Clone deep-copies the state. Mutations run against a clone and are swapped
// in only on success, which is what makes multi-collection operations
// all-or-nothing from the caller's point of view.
func (s *State) Clone() *State {
	out := &State{
		Inventory: make([]model.InventoryItem, len(s.Inventory)),
		Sales:     make([]model.Sale, len(s.Sales)),
		Customers: make([]model.KhataCustomer, len(s.Customers)),
		Language:  s.Language,
	}
	for i := range s.Inventory {
		it := s.Inventory[i]
		it.PriceHistory = append([]model.PricePoint(nil), it.PriceHistory...)
		it.PurchasePriceHistory = append([]model.PurchasePricePoint(nil), it.PurchasePriceHistory...)
		out.Inventory[i] = it
	}
	for i := range s.Sales {
		out.Sales[i] = cloneSale(s.Sales[i])
	}
	for i := range s.Customers {
		c := s.Customers[i]
		entries := make([]model.KhataEntry, len(c.Entries))
		for j := range c.Entries {
			entries[j] = cloneEntry(c.Entries[j])
		}
		c.Entries = entries
		out.Customers[i] = c
	}
	return out
}

func cloneSale(s model.Sale) model.Sale {
	s.Items = cloneItems(s.Items)
	if s.KhataCustomerID != nil {
		id := *s.KhataCustomerID
		s.KhataCustomerID = &id
	}
	s.Meta = cloneMeta(s.Meta)
	return s
}

func cloneEntry(e model.KhataEntry) model.KhataEntry {
	e.Items = cloneItems(e.Items)
	if e.ImmediatePayment != nil {
		v := *e.ImmediatePayment
		e.ImmediatePayment = &v
	}
	e.Meta = cloneMeta(e.Meta)
	return e
}

func cloneItems(items []model.LineItem) []model.LineItem {
	if items == nil {
		return nil
	}
	out := make([]model.LineItem, len(items))
	for i, it := range items {
		if it.InventoryID != nil {
			id := *it.InventoryID
			it.InventoryID = &id
		}
		out[i] = it
	}
	return out
}

func cloneMeta(m *model.ProvenanceMeta) *model.ProvenanceMeta {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
