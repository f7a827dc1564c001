package token

import (
	"context"
	"sync"

	"aura/pkg/platform/sentinel"
)

// Memory is the in-memory Store used in tests and single-instance
// deployments without Redis.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

func (s *Memory) Save(_ context.Context, scope, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[scope] = token
	return nil
}

func (s *Memory) Get(_ context.Context, scope string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token, ok := s.tokens[scope]; ok {
		return token, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *Memory) Delete(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, scope)
	return nil
}
