package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"mesto-api/internal/model"
)

const (
	cardListKey = "cards:list"
	cardGenKey  = "cards:gen"
)

var errStaleGeneration = errors.New("card list generation changed")

// CardCache keeps the serialized card collection in redis. Every card
// mutation must call Invalidate, which also bumps the generation so that a
// list read before the mutation is never written back.
type CardCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCardCache(client *redisv9.Client, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CardCache{client: client, ttl: ttl}
}

func (c *CardCache) GetCards(ctx context.Context) ([]model.Card, bool, error) {
	raw, err := c.client.Get(ctx, cardListKey).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get cards failed: %w", err)
	}

	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached cards failed: %w", err)
	}
	return cards, true, nil
}

// Generation returns the current mutation counter. Read it before loading
// the list from the store and hand it to SetCards.
func (c *CardCache) Generation(ctx context.Context) (int64, error) {
	gen, err := readGeneration(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("redis get cards generation failed: %w", err)
	}
	return gen, nil
}

// SetCards stores cards only while the generation still equals gen. A
// stale write is dropped silently.
func (c *CardCache) SetCards(ctx context.Context, cards []model.Card, gen int64) error {
	payload, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("marshal cards cache failed: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redisv9.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			pipe.Set(ctx, cardListKey, payload, c.ttl)
			return nil
		})
		return err
	}, cardGenKey)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redisv9.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set cards failed: %w", err)
	}
	return nil
}

func (c *CardCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.Incr(ctx, cardGenKey)
		pipe.Del(ctx, cardListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete cards failed: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
}

func readGeneration(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, cardGenKey).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	return gen, err
}
