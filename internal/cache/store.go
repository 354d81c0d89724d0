package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Store is the view cache consulted by loaders and invalidated by actions.
// Entries have no TTL contract: they live until a mutation clears their key
// family or the process restarts.
//
// Using an interface enables testing with fakes and swapping the in-memory
// backend for Redis.
type Store interface {
	// Set stores value under key. The value is JSON-encoded so both
	// backends behave identically and late writes from abandoned fetches
	// can never alias live data.
	Set(ctx context.Context, key string, value any) error

	// Get decodes the cached value into out. Returns false when the key
	// is absent.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Clear removes every entry whose key equals or is prefixed by
	// keyOrPrefix, e.g. Clear("posts") removes "posts" and "posts-page-2".
	Clear(ctx context.Context, keyOrPrefix string) error
}

// MemoryStore implements Store with a process-local map. This is the default
// backend: populated on first successful fetch per key, cleared by the
// actions that mutate that resource family, fully reset on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}

	s.mu.Lock()
	s.entries[key] = data
	s.mu.Unlock()

	log.Printf("[Cache] Set OK: key=%s bytes=%d", key, len(data))
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache value: %w", err)
	}

	log.Printf("[Cache] Get HIT: key=%s", key)
	return true, nil
}

func (s *MemoryStore) Clear(ctx context.Context, keyOrPrefix string) error {
	s.mu.Lock()
	removed := 0
	for k := range s.entries {
		if strings.HasPrefix(k, keyOrPrefix) {
			delete(s.entries, k)
			removed++
		}
	}
	s.mu.Unlock()

	log.Printf("[Cache] Clear OK: prefix=%s removed=%d", keyOrPrefix, removed)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
