package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/metrics"
)

const defaultCacheTTL = 5 * time.Minute

// DashboardCache keeps serialised dashboards in Redis.
// Key format: dashboard:<username>:<generation>, with the current generation
// held in dashboard-gen:<username>.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a DashboardCache wrapping the given Redis client.
// If ttl <= 0, defaultCacheTTL is used.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// Generation returns the user's current generation, 0 when no write has
// been recorded yet.
func (c *DashboardCache) Generation(ctx context.Context, username string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("dashboard cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the dashboard cached for username at gen, reporting a miss with ok == false.
func (c *DashboardCache) Get(ctx context.Context, username string, gen int64) (*domain.Summary, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(username, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("dashboard cache get: %w", err)
	}

	var s domain.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("dashboard cache decode: %w", err)
	}
	metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
	return &s, true, nil
}

// Set stores summary for username at gen (expires after the configured TTL).
func (c *DashboardCache) Set(ctx context.Context, username string, gen int64, summary *domain.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("dashboard cache encode: %w", err)
	}
	return c.client.Set(ctx, cacheKey(username, gen), raw, c.ttl).Err()
}

// Invalidate advances the user's generation. Entries stored under older
// generations are left to expire.
func (c *DashboardCache) Invalidate(ctx context.Context, username string) error {
	return c.client.Incr(ctx, generationKey(username)).Err()
}

func cacheKey(username string, gen int64) string {
	return "dashboard:" + username + ":" + strconv.FormatInt(gen, 10)
}

func generationKey(username string) string {
	return "dashboard-gen:" + username
}

// NopDashboardCache is used when Redis is not configured. Every lookup misses.
type NopDashboardCache struct{}

func (NopDashboardCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (NopDashboardCache) Get(context.Context, string, int64) (*domain.Summary, bool, error) {
	return nil, false, nil
}

func (NopDashboardCache) Set(context.Context, string, int64, *domain.Summary) error { return nil }

func (NopDashboardCache) Invalidate(context.Context, string) error { return nil }
