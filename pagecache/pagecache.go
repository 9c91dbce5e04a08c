// Package pagecache stores rendered public pages so they are served without
// touching the database until the next purge.
package pagecache

import (
	"context"
	"sync"
	"time"
)

// Cache holds rendered page bodies keyed by request path.
type Cache interface {
	// Get returns the cached body for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores body under key until it expires or the cache is purged.
	Set(ctx context.Context, key string, body []byte) error
	// Purge drops every cached page.
	Purge(ctx context.Context) error
}

// Memory is an in-process Cache used when no Redis is configured.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	body    []byte
	expires time.Time
}

// NewMemory creates a Memory cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{entries: make(map[string]memoryEntry), ttl: ttl}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, false, nil
	}
	return e.body, true, nil
}

func (m *Memory) Set(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{body: body, expires: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Purge(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
