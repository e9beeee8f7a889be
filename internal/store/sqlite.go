package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studyassist/backend/internal/domain"
)

// SQLiteStore implements SessionStore using SQLite. With an in-memory DSN
// (the default) history still dies with the process.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite session store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite locks the whole database per writer; a single pooled connection
	// also keeps :memory: DSNs pointing at one database.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Ensure SQLiteStore implements SessionStore.
var _ SessionStore = (*SQLiteStore)(nil)

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at REAL NOT NULL,
			updated_at REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			ts REAL NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Append stores a message under the session inside one transaction.
func (s *SQLiteStore) Append(ctx context.Context, sessionID, role, content string) (domain.StoredMessage, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return domain.StoredMessage{}, ErrInvalidRole
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.StoredMessage{}, ErrBlankContent
	}

	now := unixSeconds()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (session_id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET updated_at = excluded.updated_at`,
		sessionID, now, now)
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("failed to upsert session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, ts) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, now)
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.StoredMessage{}, fmt.Errorf("failed to commit: %w", err)
	}

	return domain.StoredMessage{Role: role, Content: content, Timestamp: now}, nil
}

// History returns the session's messages in chronological order.
func (s *SQLiteStore) History(ctx context.Context, sessionID string, limit int) ([]domain.StoredMessage, error) {
	query := `SELECT role, content, ts FROM messages WHERE session_id = ? ORDER BY id DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.StoredMessage
	for rows.Next() {
		var msg domain.StoredMessage
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	// Newest-first from the query; flip back to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []domain.StoredMessage{}
	}
	return messages, nil
}

// Clear removes a session and its history.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return tx.Commit()
}

// ListSessions returns the known session ids.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Stats returns timestamps and message count for a session, or zeros when the
// session is unknown.
func (s *SQLiteStore) Stats(ctx context.Context, sessionID string) (domain.SessionStats, error) {
	var stats domain.SessionStats
	err := s.db.QueryRowContext(ctx, `
		SELECT s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.session_id)
		FROM sessions s WHERE s.session_id = ?`,
		sessionID).Scan(&stats.CreatedAt, &stats.UpdatedAt, &stats.MessageCount)
	if err == sql.ErrNoRows {
		return domain.SessionStats{}, nil
	}
	if err != nil {
		return domain.SessionStats{}, fmt.Errorf("failed to query session stats: %w", err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
