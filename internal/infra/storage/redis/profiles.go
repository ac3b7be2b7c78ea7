package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
)

const (
	// profileKeyPrefix namespaces one settings document per profile name.
	profileKeyPrefix = "wallet-scanner:profile:"

	// presetsKey is the hash holding user-defined presets, name to address.
	presetsKey = "wallet-scanner:presets"
)

var _ profile.Storage = (*client)(nil)

func (c *client) GetSettings(ctx context.Context, name string) (profile.Settings, bool, error) {
	raw, err := c.conn.Get(ctx, profileKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return profile.Settings{}, false, nil
	}
	if err != nil {
		return profile.Settings{}, false, fmt.Errorf("reading profile %s: %w", name, err)
	}

	var settings profile.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return profile.Settings{}, false, fmt.Errorf("decoding profile %s: %w", name, err)
	}

	return settings, true, nil
}

func (c *client) PutSettings(ctx context.Context, name string, settings profile.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding profile %s: %w", name, err)
	}

	if err := c.conn.Set(ctx, profileKeyPrefix+name, raw, 0).Err(); err != nil {
		return fmt.Errorf("writing profile %s: %w", name, err)
	}

	return nil
}

func (c *client) GetPresets(ctx context.Context) (map[string]string, error) {
	presets, err := c.conn.HGetAll(ctx, presetsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}

	return presets, nil
}

func (c *client) PutPreset(ctx context.Context, name, address string) error {
	if err := c.conn.HSet(ctx, presetsKey, name, address).Err(); err != nil {
		return fmt.Errorf("writing preset %s: %w", name, err)
	}

	return nil
}

func (c *client) DeletePreset(ctx context.Context, name string) (bool, error) {
	removed, err := c.conn.HDel(ctx, presetsKey, name).Result()
	if err != nil {
		return false, fmt.Errorf("deleting preset %s: %w", name, err)
	}

	return removed > 0, nil
}
