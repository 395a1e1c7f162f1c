package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memBinding struct {
	roomID    string
	expiresAt time.Time // zero = never
}

// memstore is the in-memory Store used when no Redis is configured.
type memstore struct {
	mu       sync.RWMutex
	bindings map[string]memBinding
	now      func() time.Time
}

func NewMemoryStore() Store {
	return &memstore{bindings: make(map[string]memBinding), now: time.Now}
}

func (m *memstore) Bind(ctx context.Context, playerID, roomID string, ttl time.Duration) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || strings.TrimSpace(roomID) == "" {
		return nil
	}
	b := memBinding{roomID: roomID}
	if ttl > 0 {
		b.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.bindings[playerID] = b
	m.mu.Unlock()
	return nil
}

func (m *memstore) Lookup(ctx context.Context, playerID string) (string, error) {
	m.mu.RLock()
	b, ok := m.bindings[strings.TrimSpace(playerID)]
	m.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if !b.expiresAt.IsZero() && m.now().After(b.expiresAt) {
		m.mu.Lock()
		delete(m.bindings, strings.TrimSpace(playerID))
		m.mu.Unlock()
		return "", nil
	}
	return b.roomID, nil
}

func (m *memstore) Unbind(ctx context.Context, playerID string) error {
	m.mu.Lock()
	delete(m.bindings, strings.TrimSpace(playerID))
	m.mu.Unlock()
	return nil
}

func (m *memstore) Close() error { return nil }
