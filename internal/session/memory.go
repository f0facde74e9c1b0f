package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Used by tests and by
// MONGO_DISABLED development mode. Expired entries are dropped lazily on Get
// and opportunistically on Create.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	data      Data
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]memorySession{}, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, data Data) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.sessions {
		if v.expiresAt.Before(s.now()) {
			delete(s.sessions, k)
		}
	}
	s.sessions[id] = memorySession{data: data, expiresAt: s.now().Add(TTL)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if entry.expiresAt.Before(s.now()) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
