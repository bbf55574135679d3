package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	questionTemperature   = 0.7
	evaluationTemperature = 0.5
	chatTemperature       = 0.7
	nameTemperature       = 0.1
	analysisTemperature   = 0.5

	EvaluationErrorFeedback = "Error evaluating answer."
	EvaluationErrorIdeal    = "Unable to generate."
	ChatFallbackReply       = "I'm having trouble responding right now. Please try again in a moment."
	DefaultCandidateName    = "Candidate"
	emptyAnswerPlaceholder  = "(no answer provided)"
	emptyAnswerFeedback     = "No answer was provided, so this question could not be scored."
	missingFeedback         = "The answer was scored but no detailed feedback was generated."
	reviewVerdict           = "NEEDS REVIEW"
	maxNameLength           = 60
)

// FallbackQuestions is returned whenever question generation cannot produce exactly five questions.
var FallbackQuestions = [5]string{
	"Tell me about yourself and the experience most relevant to this role.",
	"Describe a challenging project you worked on and how you handled it.",
	"What are your key strengths, and how do they apply to this position?",
	"Tell me about a time you had to learn something new quickly.",
	"Why are you interested in this role, and what value would you bring?",
}

func fallbackQuestions() []string {
	out := make([]string, len(FallbackQuestions))
	copy(out, FallbackQuestions[:])
	return out
}

func fallbackEvaluation() models.Evaluation {
	return models.Evaluation{
		Score:       0,
		Feedback:    EvaluationErrorFeedback,
		IdealAnswer: EvaluationErrorIdeal,
	}
}

func fallbackSkillAnalysis() models.SkillAnalysis {
	return models.SkillAnalysis{
		Strengths:    []string{"Technical fundamentals", "Problem approach"},
		Improvements: []string{"Depth of explanation", "Practical examples"},
		Recommendations: []string{
			"Practice explaining concepts step by step",
			"Include real-world examples from your experience",
			"Review core concepts in weaker areas",
		},
	}
}

type InterviewOptions struct {
	QuestionResumeChars int
	ChatResumeChars     int
	NameResumeChars     int
}

// InterviewService holds the stateless generators layered on the gateway.
type InterviewService interface {
	GenerateQuestions(ctx context.Context, resumeText, jobRole string, category models.Category, difficulty models.Difficulty) []string
	EvaluateAnswer(ctx context.Context, question, answer, jobRole string) models.Evaluation
	ExtractName(ctx context.Context, resumeText string) string
	Chat(ctx context.Context, messages []models.ChatMessage) string
	ChatContext(ctx context.Context, resumeText, jobRole string, difficulty models.Difficulty) models.ChatContext
	SkillAnalysis(ctx context.Context, questions []string, scores []int) models.SkillAnalysis
	AnalyzeInterview(ctx context.Context, transcript models.InterviewTranscript) models.InterviewAnalysis
}

type interviewService struct {
	gateway *Gateway
	prompts *PromptBuilder
	opts    InterviewOptions
}

func NewInterviewService(gateway *Gateway, prompts *PromptBuilder, opts InterviewOptions) InterviewService {
	if opts.QuestionResumeChars <= 0 {
		opts.QuestionResumeChars = 3000
	}
	if opts.ChatResumeChars <= 0 {
		opts.ChatResumeChars = 4000
	}
	if opts.NameResumeChars <= 0 {
		opts.NameResumeChars = 1000
	}
	return &interviewService{
		gateway: gateway,
		prompts: prompts,
		opts:    opts,
	}
}

func (s *interviewService) generate(ctx context.Context, op, prompt string, temperature float32, structured bool) (string, error) {
	return s.gateway.Generate(ctx, GenerationRequest{
		Operation:   op,
		System:      s.prompts.System(),
		Prompt:      prompt,
		Temperature: temperature,
		Structured:  structured,
	})
}

// GenerateQuestions implements InterviewService. It always returns exactly five questions.
func (s *interviewService) GenerateQuestions(ctx context.Context, resumeText, jobRole string, category models.Category, difficulty models.Difficulty) []string {
	prompt, err := s.prompts.BuildQuestionPrompt(truncateRunes(resumeText, s.opts.QuestionResumeChars), jobRole, category, difficulty)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build question prompt")
		metrics.Fallback("questions")
		return fallbackQuestions()
	}

	raw, err := s.generate(ctx, "questions", prompt, questionTemperature, true)
	if err != nil {
		logger.Warn().Err(err).Str("role", jobRole).Msg("question generation failed, using fallback")
		metrics.Fallback("questions")
		return fallbackQuestions()
	}

	var questions []string
	if !Decode(raw, questionsSchema, &questions) {
		logger.Warn().Str("role", jobRole).Msg("question output malformed, using fallback")
		metrics.Fallback("questions")
		return fallbackQuestions()
	}

	for i, q := range questions {
		questions[i] = strings.TrimSpace(q)
		if questions[i] == "" {
			metrics.Fallback("questions")
			return fallbackQuestions()
		}
	}
	return questions
}

// EvaluateAnswer implements InterviewService. The result is always complete with Score in [0,10].
func (s *interviewService) EvaluateAnswer(ctx context.Context, question, answer, jobRole string) models.Evaluation {
	answer = strings.TrimSpace(answer)
	emptyAnswer := answer == ""
	if emptyAnswer {
		answer = emptyAnswerPlaceholder
	}

	prompt, err := s.prompts.BuildEvaluationPrompt(question, answer, jobRole)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build evaluation prompt")
		metrics.Fallback("evaluation")
		return fallbackEvaluation()
	}

	raw, err := s.generate(ctx, "evaluation", prompt, evaluationTemperature, true)
	if err != nil {
		logger.Warn().Err(err).Msg("answer evaluation failed, using fallback")
		metrics.Fallback("evaluation")
		return fallbackEvaluation()
	}

	var decoded struct {
		Score       float64 `json:"score"`
		Feedback    string  `json:"feedback"`
		IdealAnswer string  `json:"ideal_answer"`
	}
	if !Decode(raw, evaluationSchema, &decoded) {
		metrics.Fallback("evaluation")
		return fallbackEvaluation()
	}

	eval := models.Evaluation{
		Score:       roundClamp(decoded.Score, 0, 10),
		Feedback:    strings.TrimSpace(decoded.Feedback),
		IdealAnswer: strings.TrimSpace(decoded.IdealAnswer),
	}
	if emptyAnswer {
		eval.Score = 0
	}
	if eval.Feedback == "" {
		eval.Feedback = missingFeedback
		if emptyAnswer {
			eval.Feedback = emptyAnswerFeedback
		}
	}
	if eval.IdealAnswer == "" {
		eval.IdealAnswer = EvaluationErrorIdeal
	}
	return eval
}

// ExtractName implements InterviewService.
func (s *interviewService) ExtractName(ctx context.Context, resumeText string) string {
	if strings.TrimSpace(resumeText) == "" {
		return DefaultCandidateName
	}

	prompt, err := s.prompts.BuildExtractNamePrompt(truncateRunes(resumeText, s.opts.NameResumeChars))
	if err != nil {
		return DefaultCandidateName
	}

	raw, err := s.generate(ctx, "extract_name", prompt, nameTemperature, false)
	if err != nil {
		return DefaultCandidateName
	}
	return cleanName(raw)
}

func cleanName(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	line = strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	if line == "" || len([]rune(line)) > maxNameLength {
		return DefaultCandidateName
	}
	return line
}

// Chat implements InterviewService. The whole history is resent every turn.
func (s *interviewService) Chat(ctx context.Context, messages []models.ChatMessage) string {
	if len(messages) == 0 {
		return ChatFallbackReply
	}

	prompt, err := s.prompts.BuildChatPrompt(messages)
	if err != nil {
		return ChatFallbackReply
	}

	reply, err := s.generate(ctx, "chat", prompt, chatTemperature, false)
	if err != nil {
		logger.Warn().Err(err).Int("messages", len(messages)).Msg("chat turn failed")
		metrics.Fallback("chat")
		return ChatFallbackReply
	}
	return strings.TrimSpace(reply)
}

// ChatContext implements InterviewService.
func (s *interviewService) ChatContext(ctx context.Context, resumeText, jobRole string, difficulty models.Difficulty) models.ChatContext {
	name := s.ExtractName(ctx, resumeText)
	if strings.TrimSpace(jobRole) == "" {
		jobRole = "Any Role"
	}

	message, err := s.prompts.BuildChatContext(name, jobRole, difficulty, truncateRunes(resumeText, s.opts.ChatResumeChars))
	if err != nil {
		logger.Error().Err(err).Msg("failed to build chat context")
	}

	return models.ChatContext{
		Context:  message,
		Preview:  fmt.Sprintf("Resume uploaded successfully. Hello %s!", name),
		UserName: name,
	}
}

// SkillAnalysis implements InterviewService.
func (s *interviewService) SkillAnalysis(ctx context.Context, questions []string, scores []int) models.SkillAnalysis {
	prompt, err := s.prompts.BuildSkillAnalysisPrompt(questions, scores)
	if err != nil {
		metrics.Fallback("skill_analysis")
		return fallbackSkillAnalysis()
	}

	raw, err := s.generate(ctx, "skill_analysis", prompt, analysisTemperature, true)
	if err != nil {
		metrics.Fallback("skill_analysis")
		return fallbackSkillAnalysis()
	}

	var analysis models.SkillAnalysis
	if !Decode(raw, skillAnalysisSchema, &analysis) {
		metrics.Fallback("skill_analysis")
		return fallbackSkillAnalysis()
	}
	return analysis
}

// AnalyzeInterview implements InterviewService.
func (s *interviewService) AnalyzeInterview(ctx context.Context, transcript models.InterviewTranscript) models.InterviewAnalysis {
	if transcript.JobRole == "" {
		transcript.JobRole = "Software Developer"
	}
	if transcript.Difficulty == "" {
		transcript.Difficulty = string(models.DifficultyMedium)
	}
	if transcript.UserName == "" {
		transcript.UserName = DefaultCandidateName
	}

	prompt, err := s.prompts.BuildInterviewAnalysisPrompt(transcript)
	if err != nil {
		metrics.Fallback("interview_analysis")
		return unreviewedAnalysis("")
	}

	raw, err := s.generate(ctx, "interview_analysis", prompt, analysisTemperature, true)
	if err != nil {
		logger.Warn().Err(err).Msg("interview analysis failed")
		metrics.Fallback("interview_analysis")
		return unreviewedAnalysis("")
	}

	var decoded struct {
		OverallScore        float64  `json:"overall_score"`
		CommunicationScore  float64  `json:"communication_score"`
		TechnicalScore      float64  `json:"technical_score"`
		ConfidenceScore     float64  `json:"confidence_score"`
		BodyLanguageScore   float64  `json:"body_language_score"`
		Strengths           []string `json:"strengths"`
		AreasForImprovement []string `json:"areas_for_improvement"`
		DetailedFeedback    string   `json:"detailed_feedback"`
		Recommendations     []string `json:"recommendations"`
		Verdict             string   `json:"verdict"`
	}
	if !Decode(raw, interviewAnalysisSchema, &decoded) {
		metrics.Fallback("interview_analysis")
		return unreviewedAnalysis(raw)
	}

	return models.InterviewAnalysis{
		OverallScore:        percentScore(decoded.OverallScore),
		CommunicationScore:  percentScore(decoded.CommunicationScore),
		TechnicalScore:      percentScore(decoded.TechnicalScore),
		ConfidenceScore:     percentScore(decoded.ConfidenceScore),
		BodyLanguageScore:   percentScore(decoded.BodyLanguageScore),
		Strengths:           nonNilStrings(decoded.Strengths),
		AreasForImprovement: nonNilStrings(decoded.AreasForImprovement),
		DetailedFeedback:    strings.TrimSpace(decoded.DetailedFeedback),
		Recommendations:     nonNilStrings(decoded.Recommendations),
		Verdict:             strings.TrimSpace(decoded.Verdict),
	}
}

// unreviewedAnalysis keeps raw model prose when it could not be structured.
func unreviewedAnalysis(raw string) models.InterviewAnalysis {
	feedback := strings.TrimSpace(raw)
	score := 75
	if feedback == "" {
		feedback = "The interview could not be analyzed right now. Please try again later."
		score = 0
	}
	return models.InterviewAnalysis{
		OverallScore:        score,
		Strengths:           []string{},
		AreasForImprovement: []string{},
		DetailedFeedback:    feedback,
		Recommendations:     []string{},
		Verdict:             reviewVerdict,
	}
}

func percentScore(v float64) int {
	return roundClamp(v, 1, 100)
}

// roundClamp bounds v before the int conversion.
func roundClamp(v float64, lo, hi int) int {
	v = math.Max(float64(lo), math.Min(math.Round(v), float64(hi)))
	return int(v)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// truncateRunes keeps at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
