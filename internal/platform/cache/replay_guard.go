// Package cache holds the optional redis-backed replay guard. Providers
// retry webhooks aggressively; the guard lets the hot path skip the
// database for references it has already completed. It is an optimization
// only: the reconciler's conditional update is the source of truth, so a
// redis outage degrades to extra DB work, never to double side effects.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cfgpkg "github.com/gomonto/payments/pkg/config"
)

const keyPrefix = "gomonto:webhook:completed:"

type ReplayGuard struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.SugaredLogger
}

// NewReplayGuard returns nil when redis is not configured; callers treat a
// nil guard as "never seen".
func NewReplayGuard(cfg *cfgpkg.Config, log *zap.SugaredLogger) *ReplayGuard {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ttl := cfg.Redis.ReplayTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	log.Infow("webhook replay guard enabled", "addr", cfg.Redis.Addr, "ttl", ttl)
	return &ReplayGuard{rdb: rdb, ttl: ttl, log: log}
}

// Seen reports whether the reference was already marked completed. Errors
// are logged and read as "not seen" so redis trouble never blocks payments.
func (g *ReplayGuard) Seen(ctx context.Context, reference string) bool {
	if g == nil {
		return false
	}
	n, err := g.rdb.Exists(ctx, keyPrefix+reference).Result()
	if err != nil {
		g.log.Warnw("replay guard read failed", "reference", reference, "err", err)
		return false
	}
	return n > 0
}

// Mark remembers a completed reference for the configured TTL.
func (g *ReplayGuard) Mark(ctx context.Context, reference string) {
	if g == nil {
		return
	}
	if err := g.rdb.SetNX(ctx, keyPrefix+reference, 1, g.ttl).Err(); err != nil {
		g.log.Warnw("replay guard write failed", "reference", reference, "err", err)
	}
}

// Close releases the underlying client.
func (g *ReplayGuard) Close() error {
	if g == nil {
		return nil
	}
	return g.rdb.Close()
}
