// Package viewcache stores rendered views keyed by their logical path and drops
// them when the data behind them changes.
package viewcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

// Cache is a read-through view cache. Every Delete of a key bumps its version;
// a reader takes the version before loading the view and Fill stores the
// result only while the version is unchanged, so a load that raced an
// eviction never puts the old view back.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Version(ctx context.Context, key string) (uint64, error)
	Fill(ctx context.Context, key string, version uint64, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Invalidator is a views.Notifier that evicts stale views from a Cache.
type Invalidator struct {
	cache Cache
}

func NewInvalidator(cache Cache) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) Changed(ctx context.Context, key views.Key) {
	if err := i.cache.Delete(ctx, key.Path()); err != nil {
		slog.WarnContext(ctx, "failed to evict stale view", "view", key.Path(), "error", err)
	}
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]entry
	versions map[string]uint64
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries:  make(map[string]entry),
		versions: make(map[string]uint64),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()

		return nil, false, nil
	}

	return e.value, true, nil
}

func (m *Memory) Version(_ context.Context, key string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.versions[key], nil
}

// Fill stores value unless key was deleted after version was read. A zero ttl
// never expires.
func (m *Memory) Fill(_ context.Context, key string, version uint64, value []byte, ttl time.Duration) (bool, error) {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.versions[key] != version {
		return false, nil
	}

	m.entries[key] = e

	return true, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.entries, k)
		m.versions[k]++
	}

	return nil
}
