package llm

import (
	"log"

	"github.com/studyassist/backend/internal/config"
)

// NewClientFromConfig selects the model client once at composition time. A
// configured provider credential selects the real client; if its construction
// fails the mock takes over silently so callers never fail here. Without a
// credential the mock is always used.
func NewClientFromConfig(cfg *config.Config) Client {
	if cfg.OpenAIAPIKey != "" {
		client, err := NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
		if err == nil {
			return client
		}
		log.Printf("WARN: failed to construct OpenAI client, falling back to mock: %v", err)
	}
	return NewMockClient(cfg.MockSeed, cfg.OpenAIModel)
}
