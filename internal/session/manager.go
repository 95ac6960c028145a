// Package session holds the in-memory record of who is signed in. Each
// browsing session gets its own entry keyed by an opaque token, so
// concurrently served users never interfere. Nothing is persisted: a
// process restart signs everyone out.
package session

import (
	"sync"
	"time"

	"vfcarvalho/meu-treino/internal/domain"

	"github.com/google/uuid"
)

const defaultTTL = 12 * time.Hour

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// Manager is a concurrency-safe in-memory session store.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	stop chan struct{}
	once sync.Once
}

// NewManager creates a session manager with the given TTL and starts a
// background sweep that drops expired entries.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	m := &Manager{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create stores the session and returns its opaque token.
func (m *Manager) Create(sess domain.Session) string {
	token := uuid.NewString()
	sess.CreatedAt = time.Now()

	m.mu.Lock()
	m.entries[token] = entry{
		session:   sess,
		expiresAt: sess.CreatedAt.Add(m.ttl),
	}
	m.mu.Unlock()

	return token
}

// Get returns the session for the token, or false when the token is
// unknown or expired. Expired entries are dropped lazily here as well as
// by the sweep.
func (m *Manager) Get(token string) (domain.Session, bool) {
	m.mu.RLock()
	e, ok := m.entries[token]
	m.mu.RUnlock()

	if !ok {
		return domain.Session{}, false
	}
	if time.Now().After(e.expiresAt) {
		m.Delete(token)
		return domain.Session{}, false
	}
	return e.session, true
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
}

// Close stops the background sweep.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for token, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, token)
				}
			}
			m.mu.Unlock()
		}
	}
}
