package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"alfredoptarigan/interview-coach/internal/logger"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	groqMaxTokens      = 2048
)

type GroqConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// GroqBackend is the primary text backend, spoken to over the OpenAI-compatible chat API.
type GroqBackend struct {
	cfg    GroqConfig
	client *http.Client
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []groqMessage `json:"messages"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewGroqBackend returns nil when no API key is configured.
func NewGroqBackend(cfg GroqConfig) *GroqBackend {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGroqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultGroqModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &GroqBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *GroqBackend) Name() string { return "groq" }

func (g *GroqBackend) SupportsSystemInstruction() bool { return true }

// Generate implements TextGenerationBackend.
func (g *GroqBackend) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := make([]groqMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, groqMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, groqMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(groqRequest{
		Model:       g.cfg.Model,
		Temperature: req.Temperature,
		MaxTokens:   groqMaxTokens,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode groq request: %w", err)
	}

	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"

	var out groqResponse
	op := func() error {
		// the body reader is consumed per attempt
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			logger.Warn().Str("provider", "groq").Int("status", resp.StatusCode).Msg("groq rate limited")
			return fmt.Errorf("rate limited: %d", resp.StatusCode)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("chat status %d: %s", resp.StatusCode, snippet(respBody)))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}

		if err := json.Unmarshal(respBody, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode groq response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(op, newRetryPolicy(ctx, g.cfg.MaxRetries)); err != nil {
		return "", fmt.Errorf("groq: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", errors.New("groq: empty choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("groq: empty content")
	}
	return text, nil
}

func snippet(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit])
	}
	return string(b)
}
