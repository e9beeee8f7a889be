package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/studyassist/backend/internal/domain"
)

// History returns the full stored history for a session in chronological
// order. Reading an unknown session yields an empty list and creates nothing.
func (s *Service) History(ctx context.Context, sessionID string) (*domain.HistoryResponse, error) {
	messages, err := s.store.History(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return &domain.HistoryResponse{SessionID: sessionID, Messages: messages}, nil
}

// ListSessions returns every known session with its stats, sorted by id for a
// stable listing.
func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionInfo, error) {
	ids, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.Strings(ids)

	sessions := make([]domain.SessionInfo, 0, len(ids))
	for _, id := range ids {
		stats, err := s.store.Stats(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get session stats: %w", err)
		}
		sessions = append(sessions, domain.SessionInfo{
			SessionID:    id,
			CreatedAt:    stats.CreatedAt,
			UpdatedAt:    stats.UpdatedAt,
			MessageCount: stats.MessageCount,
		})
	}
	return sessions, nil
}

// ClearSession removes a session and its history. Clearing an unknown session
// is not an error.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
