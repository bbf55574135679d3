package services

import (
	"context"
	"errors"
	"strings"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

var ErrNoResumeText = errors.New("no text could be extracted from the resume")

// ResumeService runs uploads through extraction, chunking and analysis.
type ResumeService interface {
	ExtractText(ctx context.Context, filename string, data []byte) (models.Document, string)
	Analyze(ctx context.Context, filename string, data []byte) models.ResumeAnalysis
	ChatResumeContext(ctx context.Context, filename string, data []byte, jobRole string, difficulty models.Difficulty) (models.ChatContext, error)
}

type resumeService struct {
	extractor Extractor
	chunker   TextChunker
	analyzer  ResumeAnalyzer
	interview InterviewService
}

func NewResumeService(
	extractor Extractor,
	chunker TextChunker,
	analyzer ResumeAnalyzer,
	interview InterviewService,
) ResumeService {
	return &resumeService{
		extractor: extractor,
		chunker:   chunker,
		analyzer:  analyzer,
		interview: interview,
	}
}

// ExtractText implements ResumeService. It returns the document and its flattened text.
func (s *resumeService) ExtractText(ctx context.Context, filename string, data []byte) (models.Document, string) {
	doc := s.extractor.Extract(ctx, filename, data)
	return doc, s.chunker.Flatten(doc)
}

// Analyze implements ResumeService.
func (s *resumeService) Analyze(ctx context.Context, filename string, data []byte) models.ResumeAnalysis {
	doc := s.extractor.Extract(ctx, filename, data)
	chunks := s.chunker.ChunkDocument(doc)

	logger.Info().
		Str("file", filename).
		Int("pages", len(doc.Pages)).
		Int("chunks", len(chunks)).
		Msg("analyzing resume")

	return s.analyzer.Analyze(ctx, chunks)
}

// ChatResumeContext implements ResumeService.
func (s *resumeService) ChatResumeContext(ctx context.Context, filename string, data []byte, jobRole string, difficulty models.Difficulty) (models.ChatContext, error) {
	_, text := s.ExtractText(ctx, filename, data)
	if strings.TrimSpace(text) == "" {
		return models.ChatContext{}, ErrNoResumeText
	}
	return s.interview.ChatContext(ctx, text, jobRole, difficulty), nil
}
