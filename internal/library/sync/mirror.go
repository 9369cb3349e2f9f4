package sync

import (
	"context"
	"log"
	stdsync "sync"
	"time"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// DefaultTimeout is the watchdog window: how long the mirror waits for a
// first delivery before declaring a connection error. Kept generous for
// weak networks.
const DefaultTimeout = 20 * time.Second

// State describes the mirror's loading/error condition. Loading flips
// false on the first delivery, error, or watchdog expiry and stays false
// until a retry.
type State struct {
	Loading bool    `json:"loading"`
	Err     ErrKind `json:"error,omitempty"`
}

// Snapshot is an immutable view of everything the mirror holds. Consumers
// must treat it as read-only.
type Snapshot struct {
	Content    []domain.ContentItem `json:"content"`
	Categories []domain.Category    `json:"categories"`
	Site       domain.SiteInfo      `json:"site"`
	State      State                `json:"state"`
}

// Cache persists the latest snapshot so a restarted process starts warm.
// Warm content also feeds the error-suppression rule: a connection error
// is not surfaced over already-usable cached data.
type Cache interface {
	LoadFeed(ctx context.Context) ([]domain.ContentItem, error)
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	StoreFeed(ctx context.Context, items []domain.ContentItem) error
	StoreCategories(ctx context.Context, cats []domain.Category) error
}

// Options configures a Mirror.
type Options struct {
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// Cache is optional; nil disables warm start and write-through.
	Cache Cache
}

// Mirror keeps a live, eventually consistent copy of the content and
// categories collections and the settings singleton. Each delivery is a
// full authoritative snapshot replacing the previous slice, so readers
// never observe a partial update. Single writer (the listener loops),
// many readers.
type Mirror struct {
	sources Sources
	timeout time.Duration
	cache   Cache

	mu         stdsync.RWMutex
	content    []domain.ContentItem
	categories []domain.Category
	site       domain.SiteInfo
	loading    bool
	errKind    ErrKind
	closed     bool
	gen        int
	watchdog   *time.Timer
	cancel     context.CancelFunc
	parent     context.Context

	wg stdsync.WaitGroup

	subMu  stdsync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewMirror builds a mirror over the given sources. Call Start to begin
// listening and Close to tear everything down.
func NewMirror(sources Sources, opts Options) *Mirror {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Mirror{
		sources: sources,
		timeout: timeout,
		cache:   opts.Cache,
		loading: true,
		subs:    make(map[int]chan Snapshot),
	}
}

// Start seeds the mirror from the cache (best effort) and begins the
// listener loops. The passed context is the parent of every listener,
// including those created by later retries.
func (m *Mirror) Start(ctx context.Context) {
	m.parent = ctx

	if m.cache != nil {
		cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if items, err := m.cache.LoadFeed(cctx); err != nil {
			log.Printf("library sync: feed cache read failed: %v", err)
		} else if len(items) > 0 {
			m.mu.Lock()
			m.content = items
			m.mu.Unlock()
		}
		if cats, err := m.cache.LoadCategories(cctx); err != nil {
			log.Printf("library sync: category cache read failed: %v", err)
		} else if len(cats) > 0 {
			m.mu.Lock()
			m.categories = cats
			m.mu.Unlock()
		}
	}

	m.mu.Lock()
	m.startLocked()
	m.mu.Unlock()
}

// startLocked spins up listeners and the watchdog for the current
// generation. Caller holds m.mu.
func (m *Mirror) startLocked() {
	ctx, cancel := context.WithCancel(m.parent)
	m.cancel = cancel

	gen := m.gen
	m.watchdog = time.AfterFunc(m.timeout, func() { m.watchdogFired(gen) })

	content := m.sources.Content(ctx)
	categories := m.sources.Categories(ctx)
	settings := m.sources.Settings(ctx)

	m.wg.Add(3)
	go m.runContent(gen, content)
	go m.runCategories(gen, categories)
	go m.runSettings(gen, settings)
}

// Retry tears down the current listeners and subscribes from scratch,
// resetting the state to loading. Manual recovery path after a surfaced
// error.
func (m *Mirror) Retry() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.gen++
	m.stopWatchdogLocked()
	old := m.cancel
	m.loading = true
	m.errKind = ErrNone
	m.startLocked()
	m.mu.Unlock()

	if old != nil {
		old()
	}
}

// Close cancels every listener and the watchdog. No state updates happen
// after Close returns.
func (m *Mirror) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopWatchdogLocked()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.subMu.Lock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
	m.subMu.Unlock()
}

func (m *Mirror) runContent(gen int, src ContentSource) {
	defer m.wg.Done()
	defer src.Stop()
	for {
		items, err := src.Next()
		if err != nil {
			m.applyError(gen, err)
			return
		}
		m.applyContent(gen, items)
	}
}

func (m *Mirror) runCategories(gen int, src CategorySource) {
	defer m.wg.Done()
	defer src.Stop()
	for {
		cats, err := src.Next()
		if err != nil {
			m.applyError(gen, err)
			return
		}
		m.applyCategories(gen, cats)
	}
}

func (m *Mirror) runSettings(gen int, src SettingsSource) {
	defer m.wg.Done()
	defer src.Stop()
	for {
		info, err := src.Next()
		if err != nil {
			m.applyError(gen, err)
			return
		}
		m.applySettings(gen, info)
	}
}

func (m *Mirror) applyContent(gen int, items []domain.ContentItem) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.stopWatchdogLocked()
	m.content = items
	m.loading = false
	m.errKind = ErrNone
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)

	if m.cache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.cache.StoreFeed(ctx, items); err != nil {
				log.Printf("library sync: feed cache write failed: %v", err)
			}
		}()
	}
}

func (m *Mirror) applyCategories(gen int, cats []domain.Category) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.stopWatchdogLocked()
	m.categories = cats
	m.loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)

	if m.cache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.cache.StoreCategories(ctx, cats); err != nil {
				log.Printf("library sync: category cache write failed: %v", err)
			}
		}()
	}
}

func (m *Mirror) applySettings(gen int, info domain.SiteInfo) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.stopWatchdogLocked()
	m.site = info
	m.loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// applyError records a listener failure. Permission errors always
// surface; connection and other errors are suppressed when cached content
// already exists, so a transient outage never flashes an error screen
// over usable data.
func (m *Mirror) applyError(gen int, err error) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.stopWatchdogLocked()

	kind := Classify(err)
	if kind != ErrPermission && len(m.content) > 0 {
		log.Printf("library sync: listener error suppressed (serving cached content): %v", err)
	} else {
		m.errKind = kind
		log.Printf("library sync: listener error (%s): %v", kind, err)
	}
	m.loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// watchdogFired forces a connection error if nothing at all was heard
// within the window. Fires at most once per generation; a delivery or
// error beforehand stops the timer.
func (m *Mirror) watchdogFired(gen int) {
	m.mu.Lock()
	if m.closed || gen != m.gen || !m.loading {
		m.mu.Unlock()
		return
	}
	m.loading = false
	m.errKind = ErrConnection
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

func (m *Mirror) stopWatchdogLocked() {
	if m.watchdog != nil {
		m.watchdog.Stop()
	}
}

func (m *Mirror) snapshotLocked() Snapshot {
	return Snapshot{
		Content:    m.content,
		Categories: m.categories,
		Site:       m.site,
		State:      State{Loading: m.loading, Err: m.errKind},
	}
}

// Snapshot returns the current full view.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Content returns the current feed, newest first. The slice is replaced
// wholesale on every delivery; callers must not mutate it.
func (m *Mirror) Content() []domain.ContentItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.content
}

// Categories returns the current categories ordered by name.
func (m *Mirror) Categories() []domain.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.categories
}

// Site returns the current site info.
func (m *Mirror) Site() domain.SiteInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.site
}

// State returns the current loading/error state.
func (m *Mirror) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{Loading: m.loading, Err: m.errKind}
}

// Subscribe registers a snapshot listener and returns its channel plus an
// unsubscribe func. Slow consumers miss intermediate snapshots rather
// than blocking the mirror; each delivery they do get is complete.
func (m *Mirror) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.subMu.Unlock()

	unsubscribe := func() {
		m.subMu.Lock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
		m.subMu.Unlock()
	}
	return ch, unsubscribe
}

func (m *Mirror) notify(snap Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
