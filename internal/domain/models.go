// Package domain defines the core domain models for the assistant backend.
package domain

// Message roles accepted by the session store. RoleSystem is used only when
// assembling provider prompts and is never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// StoredMessage is a single message in a session's history. Timestamp is
// wall-clock seconds (with sub-second precision) at the moment of the append.
type StoredMessage struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

// SessionStats summarizes a session's history. All fields are zero for an
// unknown session.
type SessionStats struct {
	CreatedAt    float64 `json:"created_at"`
	UpdatedAt    float64 `json:"updated_at"`
	MessageCount int     `json:"message_count"`
}

// SessionInfo is the admin listing entry for a session.
type SessionInfo struct {
	SessionID    string  `json:"session_id"`
	CreatedAt    float64 `json:"created_at"`
	UpdatedAt    float64 `json:"updated_at"`
	MessageCount int     `json:"message_count"`
}
