package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
)

// ErrNoProvider is returned when no backend is configured or every backend failed.
var ErrNoProvider = errors.New("no text generation provider available")

// Gateway tries its backends in priority order and returns the first non-empty answer.
// It is immutable after construction and safe for concurrent use.
type Gateway struct {
	backends []TextGenerationBackend
}

// NewGateway keeps the given order. Nil backends, including typed nil pointers, are dropped.
func NewGateway(backends ...TextGenerationBackend) *Gateway {
	kept := make([]TextGenerationBackend, 0, len(backends))
	for _, b := range backends {
		if isNilBackend(b) {
			continue
		}
		kept = append(kept, b)
	}
	return &Gateway{backends: kept}
}

// Available reports whether at least one backend is configured.
func (g *Gateway) Available() bool {
	return g != nil && len(g.backends) > 0
}

// Backends returns the configured backend names in priority order.
func (g *Gateway) Backends() []string {
	if g == nil {
		return nil
	}
	names := make([]string, 0, len(g.backends))
	for _, b := range g.backends {
		names = append(names, b.Name())
	}
	return names
}

// Generate never panics. Any failure surfaces as an error wrapping ErrNoProvider.
func (g *Gateway) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if !g.Available() {
		return "", ErrNoProvider
	}

	op := req.Operation
	if op == "" {
		op = "generate"
	}

	var errs []error
	for _, backend := range g.backends {
		text, err := g.call(ctx, backend, adaptRequest(backend, req))
		if err == nil && strings.TrimSpace(text) != "" {
			metrics.AIRequestsTotal.WithLabelValues(backend.Name(), op, "success").Inc()
			return text, nil
		}
		if err == nil {
			err = errors.New("empty response")
		}

		metrics.AIRequestsTotal.WithLabelValues(backend.Name(), op, "failure").Inc()
		logger.Warn().Err(err).
			Str("provider", backend.Name()).
			Str("operation", op).
			Msg("provider failed, falling through")
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", ErrNoProvider, errors.Join(errs...))
}

func (g *Gateway) call(ctx context.Context, backend TextGenerationBackend, req GenerationRequest) (text string, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("backend panic: %v", r)
		}
		metrics.AIRequestDuration.WithLabelValues(backend.Name(), req.Operation).Observe(time.Since(start).Seconds())
	}()

	return backend.Generate(ctx, req)
}

// adaptRequest folds the system instruction into the prompt for backends that lack a system role.
func adaptRequest(backend TextGenerationBackend, req GenerationRequest) GenerationRequest {
	if backend.SupportsSystemInstruction() || req.System == "" {
		return req
	}
	req.Prompt = req.System + "\n\n" + req.Prompt
	req.System = ""
	return req
}

func isNilBackend(b TextGenerationBackend) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
