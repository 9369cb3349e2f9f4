// Package cache persists the latest library snapshot in Redis so a
// restarted process serves content before its first live delivery.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

const (
	feedKey       = "library:feed"       // latest content snapshot, newest first
	categoriesKey = "library:categories" // latest categories snapshot
	settingsKey   = "library:settings"   // settings/general singleton
	eventsChannel = "library:events"     // pub/sub notification on refresh
	snapshotTTL   = 7 * 24 * time.Hour
)

// FeedCache stores JSON snapshots under fixed keys with a TTL and
// publishes a refresh event on every write.
type FeedCache struct {
	client *redis.Client
}

func NewFeedCache(client *redis.Client) *FeedCache {
	return &FeedCache{client: client}
}

// StoreFeed replaces the cached content snapshot.
func (c *FeedCache) StoreFeed(ctx context.Context, items []domain.ContentItem) error {
	return c.store(ctx, feedKey, "content", items)
}

// StoreCategories replaces the cached categories snapshot.
func (c *FeedCache) StoreCategories(ctx context.Context, cats []domain.Category) error {
	return c.store(ctx, categoriesKey, "categories", cats)
}

// StoreSettings replaces the cached settings singleton.
func (c *FeedCache) StoreSettings(ctx context.Context, info domain.SiteInfo) error {
	return c.store(ctx, settingsKey, "settings", info)
}

func (c *FeedCache) store(ctx context.Context, key, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", event, err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, snapshotTTL)
	pipe.Publish(ctx, eventsChannel, event)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store %s snapshot: %w", event, err)
	}
	return nil
}

// LoadFeed returns the cached content snapshot; a cold cache yields nil,
// not an error.
func (c *FeedCache) LoadFeed(ctx context.Context) ([]domain.ContentItem, error) {
	var items []domain.ContentItem
	ok, err := c.load(ctx, feedKey, &items)
	if err != nil || !ok {
		return nil, err
	}
	return items, nil
}

// LoadCategories returns the cached categories snapshot.
func (c *FeedCache) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	ok, err := c.load(ctx, categoriesKey, &cats)
	if err != nil || !ok {
		return nil, err
	}
	return cats, nil
}

// LoadSettings returns the cached settings and whether they were present.
func (c *FeedCache) LoadSettings(ctx context.Context) (domain.SiteInfo, bool, error) {
	var info domain.SiteInfo
	ok, err := c.load(ctx, settingsKey, &info)
	return info, ok, err
}

func (c *FeedCache) load(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Events subscribes to refresh notifications. The caller owns the
// returned PubSub and must Close it.
func (c *FeedCache) Events(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, eventsChannel)
}

// Ping reports cache reachability for health checks.
func (c *FeedCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
