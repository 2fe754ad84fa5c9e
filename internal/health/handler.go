package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BethelHills/Alx-Polly/pkg/response"
)

const probeTimeout = 2 * time.Second

// Handler serves the liveness/readiness probe.
type Handler struct {
	pool   *pgxpool.Pool
	rdb    *redis.Client // nil when redis is not configured
	logger *zap.Logger
}

// NewHandler creates a health handler.
func NewHandler(pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{pool: pool, rdb: rdb, logger: logger}
}

// Check handles GET /health. The database round-trip is required for a 200;
// redis is reported but not required, since writes fail open without it.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	start := time.Now()
	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("health: database ping failed", zap.Error(err))
		response.ServiceUnavailable(c, "database unreachable")
		return
	}
	dbLatency := time.Since(start)

	body := gin.H{
		"status": "ok",
		"database": gin.H{
			"status":     "ok",
			"latency_ms": float64(dbLatency.Microseconds()) / 1000,
		},
	}

	switch {
	case h.rdb == nil:
		body["redis"] = gin.H{"status": "disabled"}
	default:
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.logger.Warn("health: redis ping failed", zap.Error(err))
			body["redis"] = gin.H{"status": "error"}
		} else {
			body["redis"] = gin.H{"status": "ok"}
		}
	}

	response.OK(c, body)
}
