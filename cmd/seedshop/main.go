// cmd/seedshop/main.go — resets the configured store to the starter catalog.
// Usage: go run cmd/seedshop/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"khatapos/internal/config"
	"khatapos/internal/infra"
	"khatapos/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var kv store.KV
	switch cfg.StoreBackend {
	case "redis":
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connect error: %v", err)
		}
		kv = infra.NewRedisKV(rdb)
	case "sqlite":
		kv, err = infra.NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite open error: %v", err)
		}
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	ctx := context.Background()
	inventory, err := json.Marshal(store.SeedInventory())
	if err != nil {
		log.Fatalf("marshal error: %v", err)
	}
	for key, value := range map[string][]byte{
		store.KeyInventory: inventory,
		store.KeySales:     []byte("[]"),
		store.KeyCustomers: []byte("[]"),
		store.KeyLanguage:  []byte(fmt.Sprintf("%q", store.DefaultLanguage)),
	} {
		if err := kv.Put(ctx, key, value); err != nil {
			log.Fatalf("seed write error for %s: %v", key, err)
		}
	}
	fmt.Printf("seeded %s store with the starter catalog\n", cfg.StoreBackend)
}
