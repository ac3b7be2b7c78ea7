package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// factsKey is the hash holding one fact per wallet address.
const factsKey = "wallet-scanner:oldest-facts"

var _ scan.FactStorage = (*client)(nil)

func (c *client) GetFact(ctx context.Context, address string) (scan.Fact, bool, error) {
	raw, err := c.conn.HGet(ctx, factsKey, address).Result()
	if errors.Is(err, redis.Nil) {
		return scan.Fact{}, false, nil
	}
	if err != nil {
		return scan.Fact{}, false, fmt.Errorf("reading fact for %s: %w", address, err)
	}

	var fact scan.Fact
	if err := json.Unmarshal([]byte(raw), &fact); err != nil {
		return scan.Fact{}, false, fmt.Errorf("decoding fact for %s: %w", address, err)
	}

	return fact, true, nil
}

func (c *client) PutFact(ctx context.Context, address string, fact scan.Fact) error {
	raw, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("encoding fact for %s: %w", address, err)
	}

	if err := c.conn.HSet(ctx, factsKey, address, raw).Err(); err != nil {
		return fmt.Errorf("writing fact for %s: %w", address, err)
	}

	return nil
}

func (c *client) InvalidateFact(ctx context.Context, address string) error {
	if err := c.conn.HDel(ctx, factsKey, address).Err(); err != nil {
		return fmt.Errorf("deleting fact for %s: %w", address, err)
	}

	return nil
}

func (c *client) InvalidateAllFacts(ctx context.Context) error {
	if err := c.conn.Del(ctx, factsKey).Err(); err != nil {
		return fmt.Errorf("deleting facts: %w", err)
	}

	return nil
}
