package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps flash lists per session. Values are opaque encoded bytes.
type Store interface {
	// Push appends value to the list stored under (sessionID, key).
	Push(ctx context.Context, sessionID, key string, value []byte) error
	// Pull returns every value under (sessionID, key) and clears the list.
	Pull(ctx context.Context, sessionID, key string) ([][]byte, error)
}

// ── MemoryStore ──────────────────────────────────────────────────────────────

type memorySession struct {
	lists     map[string][][]byte
	expiresAt time.Time
}

// MemoryStore is a process-local Store. A session's flashes expire after
// lifetime without writes. Suited to a single instance or tests; use
// RedisStore when several instances share sessions.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	lifetime time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore. A zero lifetime never expires.
func NewMemoryStore(lifetime time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (s *MemoryStore) Push(_ context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		sess = &memorySession{lists: make(map[string][][]byte)}
		s.sessions[sessionID] = sess
	}
	sess.lists[key] = append(sess.lists[key], append([]byte(nil), value...))
	if s.lifetime > 0 {
		sess.expiresAt = s.now().Add(s.lifetime)
	}
	return nil
}

func (s *MemoryStore) Pull(_ context.Context, sessionID, key string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return nil, nil
	}
	values := sess.lists[key]
	delete(sess.lists, key)
	if len(sess.lists) == 0 {
		delete(s.sessions, sessionID)
	}
	return values, nil
}

// Sweep drops every expired session and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions holding flashes.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// live returns the session if present and unexpired (must hold mu).
func (s *MemoryStore) live(sessionID string) *memorySession {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if s.expired(sess, s.now()) {
		delete(s.sessions, sessionID)
		return nil
	}
	return sess
}

func (s *MemoryStore) expired(sess *memorySession, now time.Time) bool {
	return s.lifetime > 0 && now.After(sess.expiresAt)
}
