package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

func setupTestCache(t *testing.T) *FeedCache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewFeedCache(client)
}

func TestFeedCacheRoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	items := []domain.ContentItem{
		{ID: "1", Title: "شرح كتاب التوحيد", Type: domain.TypeAudio, MainCategory: "عقيدة", CreatedAt: 200},
		{ID: "2", Title: "فتاوى", Type: domain.TypeFatwa, MainCategory: "فتاوى", CreatedAt: 100},
	}

	require.NoError(t, c.StoreFeed(ctx, items))

	got, err := c.LoadFeed(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID, "snapshot order survives the round trip")
	assert.Equal(t, "شرح كتاب التوحيد", got[0].Title)
}

func TestFeedCacheColdReads(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	items, err := c.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Nil(t, items, "cold cache is not an error")

	cats, err := c.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Nil(t, cats)

	_, ok, err := c.LoadSettings(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoriesAndSettingsRoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	cats := []domain.Category{
		{ID: "c1", Name: "عقيدة", Type: domain.TypeBook, SubCategories: []string{"توحيد"}},
	}
	require.NoError(t, c.StoreCategories(ctx, cats))

	got, err := c.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"توحيد"}, got[0].SubCategories)

	info := domain.SiteInfo{SiteName: "مكتبة الشيخ", MaintenanceMode: true}
	require.NoError(t, c.StoreSettings(ctx, info))

	loaded, ok, err := c.LoadSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "مكتبة الشيخ", loaded.SiteName)
	assert.True(t, loaded.MaintenanceMode)
}

func TestStorePublishesRefreshEvent(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	sub := c.Events(ctx)
	t.Cleanup(func() { _ = sub.Close() })

	// Force the subscription to be established before the write.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, c.StoreFeed(ctx, []domain.ContentItem{{ID: "1", Title: "x", Type: domain.TypeBook}}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "content", msg.Payload)
}
