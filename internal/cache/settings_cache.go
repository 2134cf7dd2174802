package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"formdesk/internal/model"
)

// SettingsCache is a staleness-tolerant snapshot of the settings singleton.
// The document is read-mostly; a short TTL bounds how stale a process view
// can get after a concurrent admin update.
type SettingsCache interface {
	Set(ctx context.Context, settings *model.SystemSettings) error
	Get(ctx context.Context) (*model.SystemSettings, error)
	Invalidate(ctx context.Context) error
}

type settingsCache struct {
	client *redis.Client
}

const settingsKey = "system:settings"
const settingsTTL = time.Minute

// NewSettingsCache creates a new settings cache
func NewSettingsCache(client *redis.Client) SettingsCache {
	return &settingsCache{
		client: client,
	}
}

func (c *settingsCache) Set(ctx context.Context, settings *model.SystemSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, settingsKey, data, settingsTTL).Err()
}

// Get returns nil, nil on a cache miss
func (c *settingsCache) Get(ctx context.Context) (*model.SystemSettings, error) {
	data, err := c.client.Get(ctx, settingsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var settings model.SystemSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *settingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, settingsKey).Err()
}
