// Package store defines the session store interface and its drivers.
package store

import (
	"context"
	"errors"

	"github.com/studyassist/backend/internal/domain"
)

// Errors reported for malformed append arguments. The service layer always
// supplies valid arguments, so seeing one of these outside tests indicates a
// programming error.
var (
	ErrInvalidRole  = errors.New("role must be 'user' or 'assistant'")
	ErrBlankContent = errors.New("content must be a non-blank string")
)

// SessionStore owns per-session message history for the lifetime of the
// process. Implementations must be safe for concurrent use; readers never
// observe a partially appended message.
type SessionStore interface {
	// Append stores a message under the session, creating the session record
	// if absent, and returns the message with its timestamp assigned. Role is
	// normalized to lowercase and must be user or assistant; content must be
	// non-blank after trimming.
	Append(ctx context.Context, sessionID, role, content string) (domain.StoredMessage, error)

	// History returns a snapshot of the session's messages in chronological
	// order. A limit > 0 keeps only the most recent limit messages; limit <= 0
	// means all. An unknown session yields an empty slice and is not created.
	History(ctx context.Context, sessionID string, limit int) ([]domain.StoredMessage, error)

	// Clear removes a session and its history. Clearing an unknown session is
	// not an error.
	Clear(ctx context.Context, sessionID string) error

	// ListSessions returns a snapshot of the known session ids.
	ListSessions(ctx context.Context) ([]string, error)

	// Stats returns created/updated timestamps and the message count for a
	// session, or the zero value when the session is unknown.
	Stats(ctx context.Context, sessionID string) (domain.SessionStats, error)

	// Lifecycle
	Close() error
}
