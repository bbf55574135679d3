package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errStub = errors.New("stub failure")

// stubBackend answers from respond and records every request it sees.
type stubBackend struct {
	name    string
	system  bool
	respond func(req GenerationRequest) (string, error)

	mu    sync.Mutex
	calls []GenerationRequest
}

func (s *stubBackend) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubBackend) SupportsSystemInstruction() bool { return s.system }

func (s *stubBackend) Generate(_ context.Context, req GenerationRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.respond == nil {
		return "", errStub
	}
	return s.respond(req)
}

func (s *stubBackend) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubBackend) Requests() []GenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GenerationRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

func replyWith(text string) func(GenerationRequest) (string, error) {
	return func(GenerationRequest) (string, error) { return text, nil }
}

func failWith(err error) func(GenerationRequest) (string, error) {
	return func(GenerationRequest) (string, error) { return "", err }
}

// byOperation routes each request to the reply registered for its Operation. Unknown operations fail.
func byOperation(replies map[string]string) func(GenerationRequest) (string, error) {
	return func(req GenerationRequest) (string, error) {
		if text, ok := replies[req.Operation]; ok {
			return text, nil
		}
		return "", errStub
	}
}

func testPrompts(t *testing.T) *PromptBuilder {
	t.Helper()
	pb, err := NewPromptBuilder()
	require.NoError(t, err)
	return pb
}
