package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// fingerprintLen is the number of hex characters kept from the request digest.
const fingerprintLen = 12

// maxEchoLen caps the echoed question length in mock answers.
const maxEchoLen = 160

// MockClient is a fully offline, deterministic model client. Identical seed,
// model, and message sequence always produce the same answer. It never fails.
type MockClient struct {
	seed         string
	defaultModel string
}

// NewMockClient creates a deterministic mock client.
func NewMockClient(seed, defaultModel string) *MockClient {
	return &MockClient{
		seed:         seed,
		defaultModel: defaultModel,
	}
}

// Chat returns a simulated answer embedding a correlation fingerprint derived
// from the canonicalized request, plus a quoted echo of the last user message.
func (m *MockClient) Chat(ctx context.Context, messages []ChatMessage, model string) (string, error) {
	if model == "" {
		model = m.defaultModel
	}

	// Maps marshal with lexicographically sorted keys, which keeps the digest
	// stable across runs.
	canonical := make([]map[string]string, 0, len(messages))
	for _, msg := range messages {
		canonical = append(canonical, map[string]string{
			"content": msg.Content,
			"role":    msg.Role,
		})
	}
	payload := map[string]interface{}{
		"seed":     m.seed,
		"model":    model,
		"messages": canonical,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// Strings and maps of strings always marshal; keep the client total.
		raw = []byte(m.seed + model)
	}
	digest := sha256.Sum256(raw)
	fingerprint := hex.EncodeToString(digest[:])[:fingerprintLen]

	answer := fmt.Sprintf("[MockAnswer:%s] This is a simulated response for testing.", fingerprint)
	if brief := lastUserQuestion(messages); brief != "" {
		answer += fmt.Sprintf(" Q=%q", brief)
	}
	return answer, nil
}

// lastUserQuestion returns the content of the most recent user message,
// trimmed and truncated for a succinct echo.
func lastUserQuestion(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != "user" {
			continue
		}
		brief := strings.TrimSpace(messages[i].Content)
		if runes := []rune(brief); len(runes) > maxEchoLen {
			brief = string(runes[:maxEchoLen])
		}
		return brief
	}
	return ""
}
