// Package service implements the chat orchestration logic.
package service

import (
	"github.com/studyassist/backend/internal/adapter/llm"
	"github.com/studyassist/backend/internal/config"
	"github.com/studyassist/backend/internal/policy"
	"github.com/studyassist/backend/internal/store"
)

// Service ties the session store, the model client, and the question policy
// into the request-level chat operations.
type Service struct {
	store  store.SessionStore
	client llm.Client
	policy *policy.Engine
	config *config.Config
}

// New creates a new service.
func New(store store.SessionStore, client llm.Client, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		client: client,
		policy: policyEngine,
		config: cfg,
	}
}
