package services

import (
	"context"
	"strings"
	"sync"
)

// stubGenerator answers with the response registered for the first marker
// found in the prompt, falling back to response.
type stubGenerator struct {
	mu        sync.Mutex
	response  string
	err       error
	responses map[string]string
	prompts   []string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	for marker, response := range s.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return s.response, nil
}

func (s *stubGenerator) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
