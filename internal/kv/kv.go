// Package kv provides transient, expiring key-value storage used for SMS
// verification codes and the refresh-token blacklist. The interface is
// injected so production deployments can swap in an external cache.
package kv

import (
	"sync"
	"time"
)

// Store is a transient key-value store with per-entry expiry.
type Store interface {
	// Set stores the value under key for ttl. A zero ttl means no expiry.
	Set(key, value string, ttl time.Duration)
	// Get returns the value and whether a live entry exists.
	Get(key string) (string, bool)
	// Delete removes the entry if present.
	Delete(key string)
}

type entry struct {
	value     string
	expiresAt time.Time // zero = never
}

// MemoryStore is the in-memory Store used by the single-binary server.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores the value under key for ttl.
func (s *MemoryStore) Set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e

	// Opportunistic sweep keeps the map from growing unbounded between hits.
	if len(s.entries) > 1024 {
		s.sweepLocked()
	}
}

// Get returns the value and whether a live entry exists.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

// Delete removes the entry if present.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
