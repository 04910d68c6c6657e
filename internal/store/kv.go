package store

import (
	"context"
	"errors"
)

// KV is the persistence transport: a durable key-value store holding each
// top-level collection as one serialized JSON value under a fixed key.
// Implementations live in internal/infra (Redis, SQLite).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ErrKeyNotFound is returned by Get when the key has never been written.
// The store treats it like any other unusable payload: seed data is used.
var ErrKeyNotFound = errors.New("store: key not found")

// Fixed keys, one per collection.
const (
	KeyInventory = "khatapos:v1:inventory"
	KeySales     = "khatapos:v1:sales"
	KeyCustomers = "khatapos:v1:customers"
	KeyLanguage  = "khatapos:v1:language"
)
