package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// readyTimeout bounds how long a readiness probe may hold its dependencies.
const readyTimeout = 3 * time.Second

// checkResult is one dependency's slice of the readiness report.
type checkResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthHandler struct {
	pool    *pgxpool.Pool
	rdb     *redis.Client
	startAt time.Time
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb, startAt: time.Now()}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready
//
// The database is required; Redis degrades readiness only when configured,
// since caching and the live bridge already fall back without it.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readyTimeout)
	defer cancel()

	dbCheck := h.checkDB(ctx)
	redisCheck := h.checkRedis(ctx)
	status := overallStatus(dbCheck, redisCheck)

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"database": dbCheck,
			"redis":    redisCheck,
		},
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
	})
}

// overallStatus folds the dependency checks into one readiness verdict.
func overallStatus(checks ...checkResult) string {
	for _, c := range checks {
		if c.Status == "down" {
			return "degraded"
		}
	}
	return "healthy"
}

func (h *HealthHandler) checkDB(ctx context.Context) checkResult {
	start := time.Now()
	if err := h.pool.Ping(ctx); err != nil {
		return checkResult{Status: "down", LatencyMS: sinceMS(start), Error: "connection failed"}
	}
	return checkResult{Status: "up", LatencyMS: sinceMS(start)}
}

func (h *HealthHandler) checkRedis(ctx context.Context) checkResult {
	if h.rdb == nil {
		return checkResult{Status: "disabled"}
	}
	start := time.Now()
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return checkResult{Status: "down", LatencyMS: sinceMS(start), Error: "connection failed"}
	}
	return checkResult{Status: "up", LatencyMS: sinceMS(start)}
}

func sinceMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
