package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/adapter/llm"
	"github.com/studyassist/backend/internal/config"
	"github.com/studyassist/backend/internal/domain"
	"github.com/studyassist/backend/internal/policy"
	"github.com/studyassist/backend/internal/store"
)

// stubClient records every invocation and returns a canned answer or error.
type stubClient struct {
	answer string
	err    error
	calls  [][]llm.ChatMessage
	models []string
}

func (s *stubClient) Chat(ctx context.Context, messages []llm.ChatMessage, model string) (string, error) {
	s.calls = append(s.calls, messages)
	s.models = append(s.models, model)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func newTestService(t *testing.T, client llm.Client) (*Service, store.SessionStore) {
	t.Helper()

	cfg := &config.Config{
		OpenAIModel:    "gpt-4o-mini",
		MockSeed:       "test-seed",
		MaxQuestionLen: 1000,
	}
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy, cfg.MaxQuestionLen)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	return New(st, client, engine, cfg), st
}

func intPtr(v int) *int { return &v }

func TestChatRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "It relates the sides of a right triangle."}
	svc, st := newTestService(t, client)

	resp, err := svc.Chat(ctx, &domain.ChatRequest{
		SessionID: "s1",
		Question:  "  What is the Pythagorean theorem?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, client.answer, resp.Answer)

	history, err := st.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "What is the Pythagorean theorem?", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, client.answer, history[1].Content)
}

func TestChatStructuralValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubClient{answer: "ok"})

	tests := []struct {
		name     string
		req      *domain.ChatRequest
		location string
		contains string
	}{
		{
			name:     "empty question",
			req:      &domain.ChatRequest{SessionID: "s1", Question: ""},
			location: "body.question",
			contains: "non-empty",
		},
		{
			name:     "whitespace question",
			req:      &domain.ChatRequest{SessionID: "s1", Question: "   "},
			location: "body.question",
			contains: "non-empty",
		},
		{
			name:     "too short",
			req:      &domain.ChatRequest{SessionID: "s1", Question: "ab"},
			location: "body.question",
			contains: "too short",
		},
		{
			name:     "blank session id",
			req:      &domain.ChatRequest{SessionID: "  ", Question: "What is calculus?"},
			location: "body.session_id",
			contains: "non-empty",
		},
		{
			name:     "negative max history",
			req:      &domain.ChatRequest{SessionID: "s1", Question: "What is calculus?", MaxHistory: intPtr(-1)},
			location: "body.max_history",
			contains: "greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chat(ctx, tt.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.location, verr.Fields[0].Location)
			assert.Contains(t, verr.Fields[0].Message, tt.contains)
		})
	}
}

func TestChatHeuristicValidation(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, st := newTestService(t, client)

	_, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: "??!"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0].Message, "unclear")

	_, err = svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: strings.Repeat("a", 1001)})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0].Message, "too long")

	// Rejected questions never reach the store or the model.
	history, _ := st.History(ctx, "s1", 0)
	assert.Empty(t, history)
	assert.Empty(t, client.calls)

	// Exactly 3 trimmed characters is accepted.
	_, err = svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: " ab1 "})
	require.NoError(t, err)
}

func TestChatUpstreamFailureKeepsUserTurn(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{err: &domain.UpstreamError{Cause: "provider exploded"}}
	svc, st := newTestService(t, client)

	_, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: "What is calculus?"})
	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "provider exploded", uerr.Cause)

	// The user turn stays; no assistant turn is stored.
	history, err := st.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RoleUser, history[0].Role)
}

func TestChatWindowsHistory(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, st := newTestService(t, client)

	for i := 0; i < 4; i++ {
		_, err := st.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("old question %d", i))
		require.NoError(t, err)
	}

	_, err := svc.Chat(ctx, &domain.ChatRequest{
		SessionID:  "s1",
		Question:   "newest question",
		MaxHistory: intPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	sent := client.calls[0]
	// Window covers the just-appended user turn plus one predecessor.
	require.Len(t, sent, 2)
	assert.Equal(t, "old question 3", sent[0].Content)
	assert.Equal(t, "newest question", sent[1].Content)
}

func TestChatMaxHistoryZeroMeansAll(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, st := newTestService(t, client)

	for i := 0; i < 15; i++ {
		_, err := st.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("old question %d", i))
		require.NoError(t, err)
	}

	_, err := svc.Chat(ctx, &domain.ChatRequest{
		SessionID:  "s1",
		Question:   "newest question",
		MaxHistory: intPtr(0),
	})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0], 16)
}

func TestChatDefaultWindow(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, st := newTestService(t, client)

	for i := 0; i < 12; i++ {
		_, err := st.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("old question %d", i))
		require.NoError(t, err)
	}

	_, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: "newest question"})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0], DefaultMaxHistory)
}

func TestChatPrependsContext(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, _ := newTestService(t, client)

	_, err := svc.Chat(ctx, &domain.ChatRequest{
		SessionID: "s1",
		Question:  "What is a derivative?",
		Context:   "  college calculus  ",
	})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	sent := client.calls[0]
	require.Len(t, sent, 2)
	assert.Equal(t, domain.RoleSystem, sent[0].Role)
	assert.Equal(t, "Context: college calculus", sent[0].Content)
	assert.Equal(t, "What is a derivative?", sent[1].Content)
}

func TestChatUsesConfiguredModel(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{answer: "ok"}
	svc, _ := newTestService(t, client)

	_, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: "What is calculus?"})
	require.NoError(t, err)

	require.Len(t, client.models, 1)
	assert.Equal(t, "gpt-4o-mini", client.models[0])
}

func TestHistoryReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubClient{answer: "ok"})

	resp, err := svc.History(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, "unknown", resp.SessionID)
	assert.Empty(t, resp.Messages)

	ids, err := st.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListAndClearSessions(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubClient{answer: "ok"})

	_, err := st.Append(ctx, "s2", domain.RoleUser, "hello")
	require.NoError(t, err)
	_, err = st.Append(ctx, "s1", domain.RoleUser, "hi")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].SessionID)
	assert.Equal(t, "s2", sessions[1].SessionID)
	assert.Equal(t, 1, sessions[0].MessageCount)

	require.NoError(t, svc.ClearSession(ctx, "s1"))
	require.NoError(t, svc.ClearSession(ctx, "s1"))

	sessions, err = svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].SessionID)
}

func TestChatErrorIsUpstreamTyped(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{err: &domain.UpstreamError{Cause: "timeout talking to provider"}}
	svc, _ := newTestService(t, client)

	_, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: "s1", Question: "What is calculus?"})
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*domain.UpstreamError)))
	assert.Contains(t, err.Error(), "timeout talking to provider")
}
