package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

// MemoryStore keeps sessions in process. Entries expire after ttl (never when ttl is 0).
type MemoryStore struct {
	mutex   sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

var (
	_ session.Store = (*MemoryStore)(nil)

	nowFunc = time.Now // mockable
)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !nowFunc().Before(e.expiresAt)
}

func (s *MemoryStore) Save(_ context.Context, sess session.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = nowFunc().Add(s.ttl)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries[sess.ID] = e
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (session.Session, error) {
	s.mutex.RLock()
	e, ok := s.entries[id]
	s.mutex.RUnlock()

	if !ok || s.expired(e) {
		return session.Session{}, session.ErrNotFound
	}
	return decode(e.data)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.entries[id]
	delete(s.entries, id)
	if !ok || s.expired(e) {
		return session.ErrNotFound
	}
	return nil
}
