// Package cache provides the per-key, per-duration memoization that fronts
// every external fetch. Stores are injected so tests can supply
// deterministic clocks and isolated instances.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock supplies the current time. Production code uses time.Now; tests
// inject a fixed or advancing clock.
type Clock func() time.Time

// Store is the contract every cache backend satisfies. Get returns the
// stored value only while it is fresh; Set unconditionally overwrites with a
// fresh timestamp and the given TTL.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// GetJSON fetches key from the store and decodes it into T. A decode
// failure counts as a miss.
func GetJSON[T any](ctx context.Context, store Store, key string) (*T, bool) {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logrus.WithFields(logrus.Fields{"key": key}).Warnf("Failed to decode cached value: %v", err)
		return nil, false
	}
	return &value, true
}

// SetJSON encodes value and stores it under key. Encoding failures are
// logged and swallowed; caching is best-effort.
func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key}).Warnf("Failed to encode value for caching: %v", err)
		return
	}
	store.Set(ctx, key, string(data), ttl)
}

type memoryEntry struct {
	data      string
	expiresAt time.Time
}

// MemoryStore is the default process-local backend. Growth is bounded in
// practice by the ticker-symbol key space; entries are overwritten on
// refresh and a restart clears state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   Clock
}

// NewMemoryStore creates an in-memory store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an in-memory store with an injected clock.
func NewMemoryStoreWithClock(clock Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

// Get returns the value for key if it has not expired.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.clock().Before(entry.expiresAt) {
		return "", false
	}
	return entry.data, true
}

// Set overwrites key with value and a fresh expiry.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		data:      value,
		expiresAt: s.clock().Add(ttl),
	}
	s.mu.Unlock()
}

// Len reports the number of entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
