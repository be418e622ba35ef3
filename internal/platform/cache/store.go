package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fourball-matchplay/internal/platform/resilience"
)

var ErrNilLoader = errors.New("loader is required")

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// generation identifies one invalidation epoch of a key. Delete bumps the key
// counter and DeletePrefix bumps the store-wide epoch.
type generation struct {
	epoch uint64
	key   uint64
}

// Store is an in-process TTL cache. A zero ttl keeps entries until deleted.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	gens    map[string]uint64
	epoch   uint64
	ttl     time.Duration
	now     func() time.Time
	flight  resilience.Group[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && s.expired(cur) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

// Delete drops key and discards any load of key that started before the call.
func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.gens[key]++
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.epoch++
	clear(s.gens)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for all concurrent callers of key.
// A load that overlaps a Delete of key is returned to its own callers but never cached,
// and callers arriving after the Delete start a fresh load. Loader errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, ErrNilLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	gen := s.generation(key)
	flightKey := key + "#" + strconv.FormatUint(gen.epoch, 10) + "." + strconv.FormatUint(gen.key, 10)
	value, err, _ := s.flight.Do(flightKey, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.setIfCurrent(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return value, nil
}

func (s *Store[V]) generation(key string) generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return generation{epoch: s.epoch, key: s.gens[key]}
}

// setIfCurrent stores value only when no invalidation of key happened since gen was taken.
func (s *Store[V]) setIfCurrent(key string, value V, gen generation) bool {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != gen.epoch || s.gens[key] != gen.key {
		return false
	}
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	return true
}

func (s *Store[V]) expired(e entry[V]) bool {
	return s.ttl > 0 && !e.expiresAt.After(s.now())
}
