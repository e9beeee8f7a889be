package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/studyassist/backend/internal/domain"
)

// sessionData holds one session's history and metadata.
type sessionData struct {
	history   []domain.StoredMessage
	createdAt float64
	updatedAt float64
}

// MemoryStore implements SessionStore with an in-process map. History lives
// only for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionData
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionData),
	}
}

// Ensure MemoryStore implements SessionStore.
var _ SessionStore = (*MemoryStore)(nil)

// Append stores a message under the session and returns it with the timestamp
// assigned.
func (s *MemoryStore) Append(ctx context.Context, sessionID, role, content string) (domain.StoredMessage, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return domain.StoredMessage{}, ErrInvalidRole
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.StoredMessage{}, ErrBlankContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := unixSeconds()
	session, ok := s.sessions[sessionID]
	if !ok {
		session = &sessionData{createdAt: now}
		s.sessions[sessionID] = session
	}

	msg := domain.StoredMessage{
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
	session.history = append(session.history, msg)
	session.updatedAt = msg.Timestamp
	return msg, nil
}

// History returns a snapshot of the session's messages in chronological order.
func (s *MemoryStore) History(ctx context.Context, sessionID string, limit int) ([]domain.StoredMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return []domain.StoredMessage{}, nil
	}

	history := session.history
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]domain.StoredMessage, len(history))
	copy(out, history)
	return out, nil
}

// Clear removes a session and its history.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// ListSessions returns a snapshot of the known session ids.
func (s *MemoryStore) ListSessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Stats returns timestamps and message count for a session, or zeros when the
// session is unknown.
func (s *MemoryStore) Stats(ctx context.Context, sessionID string) (domain.SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.SessionStats{}, nil
	}
	return domain.SessionStats{
		CreatedAt:    session.createdAt,
		UpdatedAt:    session.updatedAt,
		MessageCount: len(session.history),
	}, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// unixSeconds returns the current wall clock as float seconds.
func unixSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
