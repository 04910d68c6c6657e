package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"khatapos/internal/service"
	"khatapos/internal/store"
	"khatapos/internal/worker"
)

// Health reports ledger store connectivity, the parser breaker state, and
// the async job backlog. rdb is nil on sqlite-only deployments.
func Health(ledger *store.LedgerStore, rdb *redis.Client, parse service.ParseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if err := ledger.Ping(ctx); err != nil {
			storeStatus = "error"
		}

		body := gin.H{
			"ok":     storeStatus == "connected",
			"store":  storeStatus,
			"parser": parse.ParserState(),
		}
		if rdb != nil {
			queueStatus := "connected"
			if rdb.Ping(ctx).Err() != nil {
				queueStatus = "error"
			}
			body["queue"] = queueStatus
			if queueStatus == "connected" {
				body["dlq"] = worker.DLQDepths(ctx, rdb)
			}
		}

		status := http.StatusOK
		if storeStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
