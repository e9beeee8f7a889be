package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studyassist/backend/internal/domain"
)

const defaultTemperature = 0.2

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
}

// NewOpenAIClient creates a client for an OpenAI-compatible provider.
func NewOpenAIClient(baseURL, apiKey, defaultModel string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &OpenAIClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// chatCompletionRequest is the chat completions request body.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatCompletionResponse is the chat completions response body.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat forwards the messages to the provider and returns the first
// completion's text, trimmed. All failures come back as *domain.UpstreamError.
func (c *OpenAIClient) Chat(ctx context.Context, messages []ChatMessage, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	// Drop entries with nothing to say; the provider rejects blank content.
	forward := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		forward = append(forward, m)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    forward,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", &domain.UpstreamError{Cause: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &domain.UpstreamError{Cause: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Cause: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.UpstreamError{Cause: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", &domain.UpstreamError{Cause: fmt.Sprintf("provider error [%d]: %s", resp.StatusCode, errResp.Error.Message)}
		}
		return "", &domain.UpstreamError{Cause: fmt.Sprintf("provider error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &domain.UpstreamError{Cause: "malformed provider response", Err: err}
	}
	if len(result.Choices) == 0 {
		return "", &domain.UpstreamError{Cause: "provider returned no completion choices"}
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
