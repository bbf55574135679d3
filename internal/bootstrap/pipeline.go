// Package bootstrap wires the interview pipeline from configuration for both the API and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/services"
)

type Pipeline struct {
	Prompts   *services.PromptBuilder
	Gateway   *services.Gateway
	Extractor services.Extractor
	Chunker   services.TextChunker
	Analyzer  services.ResumeAnalyzer
	Interview services.InterviewService
	Coding    services.CodingService
	Resumes   services.ResumeService
}

// NewPipeline builds every stateless pipeline service. Missing provider keys are not an error.
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	prompts, err := services.NewPromptBuilder()
	if err != nil {
		return nil, err
	}

	groq := services.NewGroqBackend(services.GroqConfig{
		APIKey:     cfg.Groq.APIKey,
		BaseURL:    cfg.Groq.BaseURL,
		Model:      cfg.Groq.Model,
		Timeout:    cfg.Groq.Timeout,
		MaxRetries: cfg.Pipeline.ProviderMaxRetries,
	})

	gemini, err := services.NewGeminiBackend(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Pipeline.ProviderMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini: %w", err)
	}

	gateway := services.NewGateway(groq, gemini)
	if !gateway.Available() {
		logger.Warn().Msg("no AI provider configured, every pipeline operation will return its fallback")
	}

	var ocr services.OCR
	if gemini != nil {
		ocr = gemini
	}

	chunker := services.NewTextChunker(cfg.Pipeline.ChunkSize)
	extractor := services.NewExtractor(ocr, prompts)
	analyzer := services.NewResumeAnalyzer(gateway, prompts, services.AnalyzerOptions{
		Concurrency:  cfg.Pipeline.MapConcurrency,
		ChunkRetries: cfg.Pipeline.ChunkRetries,
	})
	interview := services.NewInterviewService(gateway, prompts, services.InterviewOptions{
		QuestionResumeChars: cfg.Pipeline.QuestionResumeChars,
		ChatResumeChars:     cfg.Pipeline.ChatResumeChars,
		NameResumeChars:     cfg.Pipeline.NameResumeChars,
	})

	return &Pipeline{
		Prompts:   prompts,
		Gateway:   gateway,
		Extractor: extractor,
		Chunker:   chunker,
		Analyzer:  analyzer,
		Interview: interview,
		Coding:    services.NewCodingService(gateway, prompts),
		Resumes:   services.NewResumeService(extractor, chunker, analyzer, interview),
	}, nil
}
