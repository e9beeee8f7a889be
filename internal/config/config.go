// Package config provides configuration for the assistant backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Provider settings
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration

	// Mock client determinism
	MockSeed string

	// Session store
	StoreDriver string
	StoreDSN    string

	// Question heuristics
	MaxQuestionLen int
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		LLMTimeout:     time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MockSeed:       getEnv("MOCK_SEED", "academic-query-assistant"),
		StoreDriver:    getEnv("STORE_DRIVER", "memory"),
		StoreDSN:       getEnv("STORE_DSN", ":memory:"),
		MaxQuestionLen: getEnvInt("MAX_QUESTION_LEN", 1000),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
