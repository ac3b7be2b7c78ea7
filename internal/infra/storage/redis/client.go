// Package redis implements the scanner's persistence interfaces on a Redis
// server: oldest-transaction facts, profile settings and the preset book.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type client struct {
	conn *redis.Client
}

// NewClient connects to the Redis server and verifies the connection with a
// ping before returning.
func NewClient(ctx context.Context, address, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &client{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (c *client) Close() error {
	return c.conn.Close()
}
