package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// GenerationRequest is one system + user exchange with a text backend.
type GenerationRequest struct {
	// Operation labels metrics and logs, e.g. "questions".
	Operation   string
	System      string
	Prompt      string
	Temperature float32
	// Structured asks the backend for machine-parseable output where it supports it.
	Structured bool
}

// TextGenerationBackend is a remote text-generation service.
type TextGenerationBackend interface {
	Name() string
	// SupportsSystemInstruction reports whether System is honored as a separate message.
	SupportsSystemInstruction() bool
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// OCR transcribes the visible text of an image.
type OCR interface {
	Transcribe(ctx context.Context, instruction, mimeType string, data []byte) (string, error)
}

func newRetryPolicy(ctx context.Context, maxRetries int) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = 45 * time.Second
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(maxRetries)), ctx)
}
