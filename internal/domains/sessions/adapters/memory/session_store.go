package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/sessions/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*domain.Session{}}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return session, nil
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// PurgeIdle removes and returns sessions last seen before cutoff. A session
// touched between the scan and the delete is kept.
func (s *SessionStore) PurgeIdle(_ context.Context, cutoff time.Time) ([]*domain.Session, error) {
	s.mu.RLock()
	var idle []*domain.Session
	for _, session := range s.sessions {
		if session.LastSeen().Before(cutoff) {
			idle = append(idle, session)
		}
	}
	s.mu.RUnlock()
	if len(idle) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	purged := idle[:0]
	for _, session := range idle {
		if s.sessions[session.ID()] != session || !session.LastSeen().Before(cutoff) {
			continue
		}
		delete(s.sessions, session.ID())
		purged = append(purged, session)
	}
	return purged, nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
