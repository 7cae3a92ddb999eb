package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/moonstead/moonstead/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyBonusKid = "bonus:kid:%s"

// BonusLimiter throttles manual bonus awards per kid so a stuck client cannot
// flood the ledger. Disabled entirely when redis is not configured.
type BonusLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewBonusLimiter(cfg config.Config) (*BonusLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.BonusRate <= 0 || limitCfg.BonusBurst <= 0 {
		return nil, errors.New("bonus rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &BonusLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.BonusRate,
		burst:   limitCfg.BonusBurst,
	}, nil
}

func (l *BonusLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowKid reports whether one more bonus award may proceed for the kid.
func (l *BonusLimiter) AllowKid(ctx context.Context, kidID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyBonusKid, strings.TrimSpace(kidID)), l.rate, l.burst)
}
