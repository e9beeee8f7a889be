package domain

// ChatRequest is the payload for submitting a question. SessionID is filled
// from the X-Session-Id header by the transport layer; a session_id supplied in
// the body is overridden so the header stays the single source of truth.
type ChatRequest struct {
	SessionID  string `json:"session_id"`
	Question   string `json:"question"`
	Context    string `json:"context,omitempty"`
	MaxHistory *int   `json:"max_history,omitempty"`
}

// ChatResponse carries the generated answer.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// HistoryResponse carries a session's message history in chronological order.
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Messages  []StoredMessage `json:"messages"`
}

// SessionResponse carries a freshly minted session id.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// ListSessionsResponse is the admin listing of known sessions.
type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}
