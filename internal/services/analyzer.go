package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	NoContentSummary     = "No resume content could be extracted from the uploaded file."
	IncompleteSummary    = "Could not complete analysis. Please try again later."
	chunkTemperature     = 0.2
	synthesisTemperature = 0.3
	defaultMapWorkers    = 4
)

var errUnparsable = errors.New("model output could not be parsed")

// ResumeAnalyzer produces one ResumeAnalysis from a chunked resume.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, chunks []models.Chunk) models.ResumeAnalysis
}

type AnalyzerOptions struct {
	// Concurrency bounds the number of chunk calls in flight.
	Concurrency int
	// ChunkRetries is the number of extra attempts per failed chunk.
	ChunkRetries int
}

type resumeAnalyzer struct {
	gateway *Gateway
	prompts *PromptBuilder
	opts    AnalyzerOptions
}

func NewResumeAnalyzer(gateway *Gateway, prompts *PromptBuilder, opts AnalyzerOptions) ResumeAnalyzer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultMapWorkers
	}
	if opts.ChunkRetries < 0 {
		opts.ChunkRetries = 0
	}
	return &resumeAnalyzer{
		gateway: gateway,
		prompts: prompts,
		opts:    opts,
	}
}

func noContentAnalysis() models.ResumeAnalysis {
	a := models.ResumeAnalysis{Summary: NoContentSummary}
	a.Normalize()
	return a
}

// Analyze implements ResumeAnalyzer. It always returns a well-formed analysis.
func (a *resumeAnalyzer) Analyze(ctx context.Context, chunks []models.Chunk) models.ResumeAnalysis {
	if len(chunks) == 0 {
		metrics.Fallback("resume_analysis")
		return noContentAnalysis()
	}

	results := a.mapChunks(ctx, chunks)
	strengths, weaknesses, skills := collectPartials(results)

	logger.Info().
		Int("chunks", len(chunks)).
		Int("strengths", len(strengths)).
		Int("weaknesses", len(weaknesses)).
		Int("skills", len(skills)).
		Msg("resume map phase finished")

	// no evidence to synthesize from
	if succeeded(results) == 0 {
		logger.Warn().Int("chunks", len(chunks)).Msg("every chunk analysis failed, skipping synthesis")
		metrics.Fallback("resume_analysis")
		return incompleteAnalysis(nil, nil)
	}

	final, err := a.synthesize(ctx, strengths, weaknesses, skills)
	if err != nil {
		logger.Warn().Err(err).Msg("resume synthesis failed, returning partial findings")
		metrics.Fallback("resume_analysis")
		return incompleteAnalysis(strengths, weaknesses)
	}
	return final
}

func incompleteAnalysis(strengths, weaknesses []string) models.ResumeAnalysis {
	a := models.ResumeAnalysis{
		Summary:    IncompleteSummary,
		Strengths:  strengths,
		Weaknesses: weaknesses,
	}
	a.Normalize()
	return a
}

func succeeded(results []models.ChunkResult) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}

// mapChunks runs one analysis per chunk with bounded parallelism and waits for all of them.
// A failed chunk only marks its own result.
func (a *resumeAnalyzer) mapChunks(ctx context.Context, chunks []models.Chunk) []models.ChunkResult {
	results := make([]models.ChunkResult, len(chunks))

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			analysis, err := a.analyzeChunk(ctx, chunk, len(chunks))
			results[i] = models.ChunkResult{Index: chunk.Index, Analysis: analysis, Err: err}
			if err != nil {
				metrics.ResumeChunksTotal.WithLabelValues("failed").Inc()
				logger.Warn().Err(err).Int("chunk", chunk.Index).Msg("chunk analysis discarded")
			} else {
				metrics.ResumeChunksTotal.WithLabelValues("ok").Inc()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *resumeAnalyzer) analyzeChunk(ctx context.Context, chunk models.Chunk, total int) (*models.PartialAnalysis, error) {
	prompt, err := a.prompts.BuildChunkAnalysisPrompt(chunk, total)
	if err != nil {
		return nil, err
	}

	var partial models.PartialAnalysis
	op := func() error {
		raw, err := a.gateway.Generate(ctx, GenerationRequest{
			Operation:   "chunk_analysis",
			System:      a.prompts.System(),
			Prompt:      prompt,
			Temperature: chunkTemperature,
			Structured:  true,
		})
		if err != nil {
			return err
		}
		if !Decode(raw, partialAnalysisSchema, &partial) {
			return errUnparsable
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(0), uint64(a.opts.ChunkRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", chunk.Index, err)
	}
	return &partial, nil
}

// collectPartials drops failed results and unions the successful ones without duplicates.
func collectPartials(results []models.ChunkResult) (strengths, weaknesses, skills []string) {
	s, w, k := newStringSet(), newStringSet(), newStringSet()
	for _, r := range results {
		if !r.OK() {
			continue
		}
		s.add(r.Analysis.Strengths...)
		w.add(r.Analysis.Weaknesses...)
		k.add(r.Analysis.SkillsDetected...)
	}
	return s.items, w.items, k.items
}

func (a *resumeAnalyzer) synthesize(ctx context.Context, strengths, weaknesses, skills []string) (models.ResumeAnalysis, error) {
	prompt, err := a.prompts.BuildSynthesisPrompt(strengths, weaknesses, skills)
	if err != nil {
		return models.ResumeAnalysis{}, err
	}

	raw, err := a.gateway.Generate(ctx, GenerationRequest{
		Operation:   "resume_synthesis",
		System:      a.prompts.System(),
		Prompt:      prompt,
		Temperature: synthesisTemperature,
		Structured:  true,
	})
	if err != nil {
		return models.ResumeAnalysis{}, err
	}

	var decoded struct {
		ATSScore       float64  `json:"ats_score"`
		Summary        string   `json:"summary"`
		Strengths      []string `json:"strengths"`
		Weaknesses     []string `json:"weaknesses"`
		MissingSkills  []string `json:"missing_skills"`
		SuggestedRoles []string `json:"suggested_roles"`
	}
	if !Decode(raw, resumeAnalysisSchema, &decoded) {
		return models.ResumeAnalysis{}, errUnparsable
	}

	result := models.ResumeAnalysis{
		ATSScore:       roundClamp(decoded.ATSScore, 0, 100),
		Summary:        strings.TrimSpace(decoded.Summary),
		Strengths:      decoded.Strengths,
		Weaknesses:     decoded.Weaknesses,
		MissingSkills:  decoded.MissingSkills,
		SuggestedRoles: decoded.SuggestedRoles,
	}
	result.Normalize()
	return result, nil
}

// stringSet keeps first-seen order and compares case-insensitively.
type stringSet struct {
	seen  map[string]struct{}
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *stringSet) add(values ...string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.items = append(s.items, v)
	}
}
