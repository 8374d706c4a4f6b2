package cache

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/d2webapi/internal/platform/resilience"

	crerr "github.com/cockroachdb/errors"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

// Store keeps response bodies for a fixed TTL. A zero TTL disables caching: every lookup
// misses and GetOrLoad always calls the loader.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.Flight[[]byte]
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.ttl > 0
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool) {
	if !s.Enabled() || key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.body, true
}

func (s *Store) Set(_ context.Context, key string, body []byte) {
	if !s.Enabled() || key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{body: body, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Purge drops every entry, expired or not.
func (s *Store) Purge() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached body for key or loads, stores and returns it. Concurrent
// misses for one key share a single load. hit reports whether the body came from the cache.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) (body []byte, hit bool, err error) {
	if loader == nil {
		return nil, false, crerr.New("loader is required")
	}
	if !s.Enabled() || key == "" {
		body, err = loader(ctx)
		return body, false, err
	}

	if cached, ok := s.Get(ctx, key); ok {
		return cached, true, nil
	}

	body, _, err = s.flight.Do(key, func() ([]byte, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, false, err
	}
	return body, false, nil
}
