package sync

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

type feedMsg struct {
	items []domain.ContentItem
	err   error
}

type catMsg struct {
	cats []domain.Category
	err  error
}

type siteMsg struct {
	info domain.SiteInfo
	err  error
}

// fakeSources hands each listener generation a source fed from shared
// channels. A source drains its context before touching the channels so
// a torn-down generation never steals a delivery meant for its
// successor.
type fakeSources struct {
	feed chan feedMsg
	cats chan catMsg
	site chan siteMsg

	mu     stdsync.Mutex
	starts int
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		feed: make(chan feedMsg, 8),
		cats: make(chan catMsg, 8),
		site: make(chan siteMsg, 8),
	}
}

func (f *fakeSources) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeSources) Content(ctx context.Context) ContentSource {
	f.mu.Lock()
	f.starts++
	f.mu.Unlock()
	return &fakeContentSource{ctx: ctx, ch: f.feed}
}

func (f *fakeSources) Categories(ctx context.Context) CategorySource {
	return &fakeCategorySource{ctx: ctx, ch: f.cats}
}

func (f *fakeSources) Settings(ctx context.Context) SettingsSource {
	return &fakeSettingsSource{ctx: ctx, ch: f.site}
}

type fakeContentSource struct {
	ctx context.Context
	ch  chan feedMsg
}

func (s *fakeContentSource) Next() ([]domain.ContentItem, error) {
	select {
	case <-s.ctx.Done():
		return nil, status.Error(codes.Canceled, "listener stopped")
	default:
	}
	select {
	case msg := <-s.ch:
		return msg.items, msg.err
	case <-s.ctx.Done():
		return nil, status.Error(codes.Canceled, "listener stopped")
	}
}

func (s *fakeContentSource) Stop() {}

type fakeCategorySource struct {
	ctx context.Context
	ch  chan catMsg
}

func (s *fakeCategorySource) Next() ([]domain.Category, error) {
	select {
	case <-s.ctx.Done():
		return nil, status.Error(codes.Canceled, "listener stopped")
	default:
	}
	select {
	case msg := <-s.ch:
		return msg.cats, msg.err
	case <-s.ctx.Done():
		return nil, status.Error(codes.Canceled, "listener stopped")
	}
}

func (s *fakeCategorySource) Stop() {}

type fakeSettingsSource struct {
	ctx context.Context
	ch  chan siteMsg
}

func (s *fakeSettingsSource) Next() (domain.SiteInfo, error) {
	select {
	case <-s.ctx.Done():
		return domain.SiteInfo{}, status.Error(codes.Canceled, "listener stopped")
	default:
	}
	select {
	case msg := <-s.ch:
		return msg.info, msg.err
	case <-s.ctx.Done():
		return domain.SiteInfo{}, status.Error(codes.Canceled, "listener stopped")
	}
}

func (s *fakeSettingsSource) Stop() {}

type fakeCache struct {
	mu         stdsync.Mutex
	feed       []domain.ContentItem
	cats       []domain.Category
	feedWrites int
}

func (c *fakeCache) LoadFeed(context.Context) ([]domain.ContentItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feed, nil
}

func (c *fakeCache) LoadCategories(context.Context) ([]domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cats, nil
}

func (c *fakeCache) StoreFeed(_ context.Context, items []domain.ContentItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feed = items
	c.feedWrites++
	return nil
}

func (c *fakeCache) StoreCategories(_ context.Context, cats []domain.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cats = cats
	return nil
}

func (c *fakeCache) FeedWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedWrites
}

func itemsNamed(ids ...string) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.ContentItem{
			ID:        id,
			Title:     id,
			Type:      domain.TypeBook,
			CreatedAt: int64(1000 - i),
		})
	}
	return out
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestMirrorReplacesSnapshots(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{items: itemsNamed("a", "b")}
	waitFor(t, func() bool { return len(m.Content()) == 2 }, "first delivery applied")
	assert.False(t, m.State().Loading)
	assert.Equal(t, "a", m.Content()[0].ID, "feed order preserved")

	src.feed <- feedMsg{items: itemsNamed("c")}
	waitFor(t, func() bool { return len(m.Content()) == 1 }, "second delivery replaces the first")
	assert.Equal(t, "c", m.Content()[0].ID)

	src.cats <- catMsg{cats: []domain.Category{{ID: "1", Name: "فقه", Type: domain.TypeBook}}}
	waitFor(t, func() bool { return len(m.Categories()) == 1 }, "category delivery applied")

	src.site <- siteMsg{info: domain.SiteInfo{SiteName: "مكتبة"}}
	waitFor(t, func() bool { return m.Site().SiteName == "مكتبة" }, "settings delivery applied")
}

func TestMirrorWatchdogFiresOnce(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: 30 * time.Millisecond})

	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	m.Start(context.Background())
	defer m.Close()

	waitFor(t, func() bool { return m.State().Err == ErrConnection }, "watchdog declares a connection error")
	assert.False(t, m.State().Loading)

	time.Sleep(80 * time.Millisecond)

	fired := 0
	for {
		select {
		case snap := <-ch:
			if snap.State.Err == ErrConnection {
				fired++
			}
			continue
		default:
		}
		break
	}
	assert.Equal(t, 1, fired, "watchdog must fire exactly once")
}

func TestMirrorWatchdogStoppedByDelivery(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: 40 * time.Millisecond})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{items: itemsNamed("a")}
	waitFor(t, func() bool { return !m.State().Loading }, "delivery ends loading")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, ErrNone, m.State().Err, "watchdog must not fire after a delivery")
}

func TestMirrorNoUpdatesAfterClose(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: 30 * time.Millisecond})

	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	m.Start(context.Background())
	m.Close()

	time.Sleep(80 * time.Millisecond)

	state := m.State()
	assert.True(t, state.Loading, "state frozen at teardown")
	assert.Equal(t, ErrNone, state.Err, "watchdog must not fire after close")

	_, open := <-ch
	assert.False(t, open, "subscriber channels close on teardown")
}

func TestMirrorConnectionErrorSurfacesWhenEmpty(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{err: status.Error(codes.Unavailable, "backend down")}
	waitFor(t, func() bool { return m.State().Err == ErrConnection }, "nothing cached, so the outage surfaces")
	assert.False(t, m.State().Loading)
}

func TestMirrorErrorSuppressedOverCachedContent(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{items: itemsNamed("a")}
	waitFor(t, func() bool { return len(m.Content()) == 1 }, "delivery applied")

	src.cats <- catMsg{err: status.Error(codes.DeadlineExceeded, "slow backend")}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, ErrNone, m.State().Err, "transient outage hidden behind usable content")
	assert.Len(t, m.Content(), 1, "cached content still served")
}

func TestMirrorPermissionErrorAlwaysSurfaces(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{items: itemsNamed("a")}
	waitFor(t, func() bool { return len(m.Content()) == 1 }, "delivery applied")

	src.cats <- catMsg{err: status.Error(codes.PermissionDenied, "rules changed")}
	waitFor(t, func() bool { return m.State().Err == ErrPermission }, "permission errors are never suppressed")
}

func TestMirrorWarmStartFromCache(t *testing.T) {
	cache := &fakeCache{feed: itemsNamed("cached")}
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute, Cache: cache})
	m.Start(context.Background())
	defer m.Close()

	require.Len(t, m.Content(), 1, "cache seeds the mirror before any delivery")
	assert.Equal(t, "cached", m.Content()[0].ID)

	src.feed <- feedMsg{err: status.Error(codes.Unavailable, "backend down")}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, ErrNone, m.State().Err, "warm content feeds the suppression rule")
}

func TestMirrorWritesDeliveriesThrough(t *testing.T) {
	cache := &fakeCache{}
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute, Cache: cache})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{items: itemsNamed("a", "b")}
	waitFor(t, func() bool { return cache.FeedWrites() == 1 }, "delivery persisted to the cache")
}

func TestMirrorRetry(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	src.feed <- feedMsg{err: status.Error(codes.Unavailable, "backend down")}
	waitFor(t, func() bool { return m.State().Err == ErrConnection }, "first error surfaces")

	m.Retry()

	state := m.State()
	assert.True(t, state.Loading, "retry resets to loading")
	assert.Equal(t, ErrNone, state.Err)
	waitFor(t, func() bool { return src.Starts() == 2 }, "retry subscribes from scratch")

	// The torn-down generation exits before the fresh one is fed.
	time.Sleep(20 * time.Millisecond)
	src.feed <- feedMsg{items: itemsNamed("a")}
	waitFor(t, func() bool { return len(m.Content()) == 1 }, "fresh listener delivers")
	assert.False(t, m.State().Loading)
}

func TestMirrorSubscribeFanout(t *testing.T) {
	src := newFakeSources()
	m := NewMirror(src, Options{Timeout: time.Minute})
	m.Start(context.Background())
	defer m.Close()

	ch, unsubscribe := m.Subscribe()

	src.feed <- feedMsg{items: itemsNamed("a")}

	select {
	case snap := <-ch:
		require.Len(t, snap.Content, 1)
		assert.False(t, snap.State.Loading)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered to subscriber")
	}

	unsubscribe()
	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")
}
