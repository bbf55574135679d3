package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"alfredoptarigan/interview-coach/internal/logger"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiMaxTokens    = 4096
)

// GeminiBackend is the secondary text backend. It also serves image OCR.
type GeminiBackend struct {
	client     *genai.Client
	modelName  string
	maxRetries int
}

// NewGeminiBackend returns nil, nil when apiKey is empty: the backend is simply not configured.
func NewGeminiBackend(ctx context.Context, apiKey, model string, maxRetries int) (*GeminiBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiBackend{
		client:     client,
		modelName:  model,
		maxRetries: maxRetries,
	}, nil
}

func (g *GeminiBackend) Name() string { return "gemini" }

// SupportsSystemInstruction is false: the gateway folds the system text into the prompt.
func (g *GeminiBackend) SupportsSystemInstruction() bool { return false }

// Generate implements TextGenerationBackend.
func (g *GeminiBackend) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: geminiMaxTokens,
	}
	if req.Structured {
		config.ResponseMIMEType = "application/json"
	}

	return g.generate(ctx, genai.Text(req.Prompt), config)
}

// Transcribe implements OCR.
func (g *GeminiBackend) Transcribe(ctx context.Context, instruction, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image")
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: instruction},
			{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
		},
	}}

	var temperature float32 = 0
	return g.generate(ctx, contents, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: geminiMaxTokens,
	})
}

func (g *GeminiBackend) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var text string
	op := func() error {
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			logger.Warn().Err(err).Str("provider", "gemini").Msg("gemini request failed")
			if !retryableGeminiError(err) {
				return backoff.Permanent(fmt.Errorf("failed to generate text: %w", err))
			}
			return fmt.Errorf("failed to generate text: %w", err)
		}
		if resp == nil {
			return errors.New("no response generated (nil response)")
		}

		text = strings.TrimSpace(resp.Text())
		if text == "" {
			return backoff.Permanent(errors.New("no text content in response"))
		}
		return nil
	}

	if err := backoff.Retry(op, newRetryPolicy(ctx, g.maxRetries)); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return text, nil
}

// retryableGeminiError reports whether err is worth another attempt. Client errors other than 429 are not.
func retryableGeminiError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return apiErr.Code < 400 || apiErr.Code >= 500
}
