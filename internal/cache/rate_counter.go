package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RateCounter implements a fixed-window counter with INCR and EXPIRE NX in
// one transaction, so a window always gets its expiry.
type RateCounter struct {
	client *redisv9.Client
}

func NewRateCounter(client *redisv9.Client) *RateCounter {
	return &RateCounter{client: client}
}

func (r *RateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis rate counter failed: %w", err)
	}
	return incr.Val(), nil
}
