package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/studyassist/backend/internal/adapter/llm"
	"github.com/studyassist/backend/internal/domain"
	"github.com/studyassist/backend/internal/policy"
)

// DefaultMaxHistory is the history window used when the caller does not set
// max_history. Zero means the full history.
const DefaultMaxHistory = 10

// minQuestionLen is the minimum trimmed question length.
const minQuestionLen = 3

// Chat runs one question/answer turn: validate, store the user turn, assemble
// the windowed prompt, invoke the model, store the assistant turn. On an
// upstream failure the user turn stays in history and no assistant turn is
// stored.
func (s *Service) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	question := strings.TrimSpace(req.Question)
	maxHistory := DefaultMaxHistory
	if req.MaxHistory != nil {
		maxHistory = *req.MaxHistory
	}

	if verr := validateChatRequest(sessionID, question, maxHistory); verr != nil {
		return nil, verr
	}
	if verr, err := s.checkQuestionPolicy(ctx, question); err != nil {
		return nil, err
	} else if verr != nil {
		return nil, verr
	}

	if _, err := s.store.Append(ctx, sessionID, domain.RoleUser, question); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	history, err := s.store.History(ctx, sessionID, maxHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	if contextText := strings.TrimSpace(req.Context); contextText != "" {
		messages = append(messages, llm.ChatMessage{
			Role:    domain.RoleSystem,
			Content: "Context: " + contextText,
		})
	}
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	// No store lock is held here; the provider call is the only slow path.
	answer, err := s.client.Chat(ctx, messages, s.config.OpenAIModel)
	if err != nil {
		// The user turn already landed; that asymmetry is intended.
		return nil, err
	}

	if _, err := s.store.Append(ctx, sessionID, domain.RoleAssistant, answer); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	return &domain.ChatResponse{SessionID: sessionID, Answer: answer}, nil
}

// validateChatRequest applies the structural checks and collects every
// violation into one validation error.
func validateChatRequest(sessionID, question string, maxHistory int) *domain.ValidationError {
	var fields []domain.FieldError

	if sessionID == "" {
		fields = append(fields, domain.FieldError{
			Location: "body.session_id",
			Message:  "session_id must be a non-empty string",
			Kind:     "value_error",
		})
	}
	if question == "" {
		fields = append(fields, domain.FieldError{
			Location: "body.question",
			Message:  "question must be a non-empty string",
			Kind:     "value_error",
		})
	} else if utf8.RuneCountInString(question) < minQuestionLen {
		fields = append(fields, domain.FieldError{
			Location: "body.question",
			Message:  "question is too short; please provide more details",
			Kind:     "value_error",
		})
	}
	if maxHistory < 0 {
		fields = append(fields, domain.FieldError{
			Location: "body.max_history",
			Message:  "max_history must be greater than or equal to 0",
			Kind:     "value_error",
		})
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// checkQuestionPolicy maps policy verdicts onto field-level validation errors.
func (s *Service) checkQuestionPolicy(ctx context.Context, question string) (*domain.ValidationError, error) {
	verdict, err := s.policy.CheckQuestion(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate question policy: %w", err)
	}

	switch verdict {
	case policy.VerdictTooLong:
		msg := fmt.Sprintf("question is too long; maximum %d characters", s.config.MaxQuestionLen)
		return domain.NewValidationError("body.question", msg, "value_error"), nil
	case policy.VerdictUnclear:
		return domain.NewValidationError("body.question", "question appears unclear; please include alphanumeric characters", "value_error"), nil
	}
	return nil, nil
}
