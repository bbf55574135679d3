package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-coach/internal/models"
)

func newTestInterview(t *testing.T, backends ...TextGenerationBackend) InterviewService {
	t.Helper()
	return NewInterviewService(NewGateway(backends...), testPrompts(t), InterviewOptions{})
}

func TestGenerateQuestions_AlwaysFive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    string
		fallback bool
	}{
		{name: "valid", reply: `["Q1", "Q2", "Q3", "Q4", "Q5"]`},
		{name: "fenced", reply: "```json\n[\"Q1\", \"Q2\", \"Q3\", \"Q4\", \"Q5\"]\n```"},
		{name: "too_few", reply: `["Q1", "Q2"]`, fallback: true},
		{name: "too_many", reply: `["1", "2", "3", "4", "5", "6"]`, fallback: true},
		{name: "blank_question", reply: `["Q1", "Q2", "Q3", "Q4", "   "]`, fallback: true},
		{name: "object", reply: `{"questions": ["Q1"]}`, fallback: true},
		{name: "prose", reply: "Here are your questions: 1. What is Go?", fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestInterview(t, &stubBackend{respond: replyWith(tt.reply)})

			questions := svc.GenerateQuestions(context.Background(), "resume", "Go Developer", models.CategoryTechnical, models.DifficultyMedium)
			require.Len(t, questions, 5)
			if tt.fallback {
				assert.Equal(t, FallbackQuestions[:], questions)
			} else {
				assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, questions)
			}
		})
	}
}

func TestGenerateQuestions_FallbackIsACopy(t *testing.T) {
	t.Parallel()

	svc := newTestInterview(t)
	first := svc.GenerateQuestions(context.Background(), "", "Any", models.CategoryHR, models.DifficultyEasy)
	first[0] = "mutated"

	second := svc.GenerateQuestions(context.Background(), "", "Any", models.CategoryHR, models.DifficultyEasy)
	assert.Equal(t, FallbackQuestions[0], second[0])
}

func TestGenerateQuestions_PromptContent(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{system: true, respond: replyWith(`["a", "b", "c", "d", "e"]`)}
	svc := NewInterviewService(NewGateway(backend), testPrompts(t), InterviewOptions{QuestionResumeChars: 10})

	svc.GenerateQuestions(context.Background(), "0123456789ABCDEF", "Data Engineer", models.CategoryBehavioral, models.DifficultyHard)

	req := backend.Requests()[0]
	assert.Equal(t, "questions", req.Operation)
	assert.True(t, req.Structured)
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.NotEmpty(t, req.System)
	assert.Contains(t, req.Prompt, "0123456789")
	assert.NotContains(t, req.Prompt, "ABCDEF")
	assert.Contains(t, req.Prompt, "STAR method")
	assert.Contains(t, req.Prompt, "system design")
	assert.Contains(t, req.Prompt, "Data Engineer")
}

// Scenario: a two-page resume fits in one chunk and yields five questions.
func TestScenario_ResumeToQuestions(t *testing.T) {
	t.Parallel()

	doc := models.Document{Pages: []models.Page{
		{PageNumber: 1, Text: "Experienced Python Developer with Django and FastAPI"},
		{PageNumber: 2, Text: "Worked at Acme Corp building data pipelines"},
	}}
	chunks := NewTextChunker(400).ChunkDocument(doc)
	require.Len(t, chunks, 1)

	backend := &stubBackend{respond: replyWith(`["What is a decorator?", "Explain the GIL.", "How does Django ORM work?", "Describe async in FastAPI.", "How did you test pipelines at Acme?"]`)}
	svc := newTestInterview(t, backend)

	questions := svc.GenerateQuestions(context.Background(), chunks[0].Text, "Python Developer", models.ParseCategory("Technical"), models.ParseDifficulty("Medium"))
	assert.Len(t, questions, 5)
	assert.Contains(t, backend.Requests()[0].Prompt, "Acme Corp")
}

// Scenario: an empty answer is still evaluated and scores zero.
func TestScenario_EmptyAnswer(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{respond: replyWith(`{"score": 2, "feedback": "", "ideal_answer": "A REST API exposes resources over HTTP."}`)}
	svc := newTestInterview(t, backend)

	eval := svc.EvaluateAnswer(context.Background(), "What is a REST API?", "   ", "Backend Developer")

	assert.Equal(t, 0, eval.Score)
	assert.Equal(t, emptyAnswerFeedback, eval.Feedback)
	assert.Equal(t, "A REST API exposes resources over HTTP.", eval.IdealAnswer)
	assert.Contains(t, backend.Requests()[0].Prompt, emptyAnswerPlaceholder)
}

// Scenario: with no providers every generator returns its fixed fallback.
func TestScenario_NoProviders(t *testing.T) {
	t.Parallel()

	svc := newTestInterview(t)
	ctx := context.Background()

	questions := svc.GenerateQuestions(ctx, "resume", "Python Developer", models.CategoryTechnical, models.DifficultyMedium)
	assert.Equal(t, FallbackQuestions[:], questions)

	eval := svc.EvaluateAnswer(ctx, "What is a REST API?", "It is an API.", "Backend Developer")
	assert.Equal(t, models.Evaluation{Score: 0, Feedback: EvaluationErrorFeedback, IdealAnswer: EvaluationErrorIdeal}, eval)

	assert.Equal(t, DefaultCandidateName, svc.ExtractName(ctx, "Jane Doe\nEngineer"))
	assert.Equal(t, ChatFallbackReply, svc.Chat(ctx, []models.ChatMessage{{Role: "user", Content: "hi"}}))
	assert.Equal(t, fallbackSkillAnalysis(), svc.SkillAnalysis(ctx, []string{"q"}, []int{5}))
}

func TestEvaluateAnswer_ScoreBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{name: "in_range", reply: `{"score": 7, "feedback": "Good", "ideal_answer": "x"}`, want: 7},
		{name: "rounds", reply: `{"score": 6.6, "feedback": "Good", "ideal_answer": "x"}`, want: 7},
		{name: "above_max", reply: `{"score": 15, "feedback": "Good", "ideal_answer": "x"}`, want: 10},
		{name: "negative", reply: `{"score": -3, "feedback": "Bad", "ideal_answer": "x"}`, want: 0},
		{name: "huge", reply: `{"score": 1e300, "feedback": "Good", "ideal_answer": "x"}`, want: 10},
		{name: "malformed", reply: `{"score": "ten"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestInterview(t, &stubBackend{respond: replyWith(tt.reply)})

			eval := svc.EvaluateAnswer(context.Background(), "Q?", "An answer", "Dev")
			assert.Equal(t, tt.want, eval.Score)
			assert.GreaterOrEqual(t, eval.Score, 0)
			assert.LessOrEqual(t, eval.Score, 10)
			assert.NotEmpty(t, eval.Feedback)
			assert.NotEmpty(t, eval.IdealAnswer)
		})
	}
}

func TestEvaluateAnswer_FillsMissingText(t *testing.T) {
	t.Parallel()

	svc := newTestInterview(t, &stubBackend{respond: replyWith(`{"score": 5, "feedback": "  ", "ideal_answer": ""}`)})
	eval := svc.EvaluateAnswer(context.Background(), "Q?", "Some answer", "Dev")

	assert.Equal(t, 5, eval.Score)
	assert.Equal(t, missingFeedback, eval.Feedback)
	assert.Equal(t, EvaluationErrorIdeal, eval.IdealAnswer)
}

func TestExtractName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "plain", reply: "Jane Doe", want: "Jane Doe"},
		{name: "quoted", reply: `"Jane Doe".`, want: "Jane Doe"},
		{name: "multi_line", reply: "Jane Doe\nSoftware Engineer", want: "Jane Doe"},
		{name: "too_long", reply: strings.Repeat("a", 61), want: DefaultCandidateName},
		{name: "only_punctuation", reply: "...", want: DefaultCandidateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestInterview(t, &stubBackend{respond: replyWith(tt.reply)})
			assert.Equal(t, tt.want, svc.ExtractName(context.Background(), "Jane Doe resume"))
		})
	}

	t.Run("empty_resume_skips_provider", func(t *testing.T) {
		t.Parallel()
		backend := &stubBackend{respond: replyWith("Someone")}
		svc := newTestInterview(t, backend)
		assert.Equal(t, DefaultCandidateName, svc.ExtractName(context.Background(), "  "))
		assert.Equal(t, 0, backend.Calls())
	})
}

func TestChat(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{respond: replyWith("  Tell me about channels.  ")}
	svc := newTestInterview(t, backend)

	reply := svc.Chat(context.Background(), []models.ChatMessage{
		{Role: "system", Content: "context block"},
		{Role: "assistant", Content: "Hello!"},
		{Role: "user", Content: "I know Go."},
	})
	assert.Equal(t, "Tell me about channels.", reply)

	prompt := backend.Requests()[0].Prompt
	assert.Contains(t, prompt, "Context: context block")
	assert.Contains(t, prompt, "Interviewer: Hello!")
	assert.Contains(t, prompt, "Candidate: I know Go.")

	assert.Equal(t, ChatFallbackReply, svc.Chat(context.Background(), nil))
}

func TestChatContext(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{respond: byOperation(map[string]string{"extract_name": "Ada Lovelace"})}
	svc := newTestInterview(t, backend)

	chatCtx := svc.ChatContext(context.Background(), "Ada Lovelace, analyst", "", models.DifficultyHard)
	assert.Equal(t, "Ada Lovelace", chatCtx.UserName)
	assert.Equal(t, "Resume uploaded successfully. Hello Ada Lovelace!", chatCtx.Preview)
	assert.Contains(t, chatCtx.Context, "Target Job Role: Any Role")
	assert.Contains(t, chatCtx.Context, "Difficulty Level: Hard")
	assert.Contains(t, chatCtx.Context, "Ada Lovelace, analyst")
}

func TestSkillAnalysis(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{respond: replyWith(`{"strengths": ["APIs"], "improvements": ["Caching"], "recommendations": ["Read about Redis"]}`)}
	svc := newTestInterview(t, backend)

	analysis := svc.SkillAnalysis(context.Background(), []string{"What is REST?", "What is caching?"}, []int{9, 3})
	assert.Equal(t, []string{"APIs"}, analysis.Strengths)
	assert.Equal(t, []string{"Caching"}, analysis.Improvements)

	prompt := backend.Requests()[0].Prompt
	assert.Contains(t, prompt, `"question": "What is REST?"`)
	assert.Contains(t, prompt, `"score": 3`)
}

func TestAnalyzeInterview(t *testing.T) {
	t.Parallel()

	transcript := models.InterviewTranscript{
		Conversation: []models.ChatMessage{
			{Role: "assistant", Content: "Why Go?"},
			{Role: "user", Content: "Simplicity."},
		},
		BehavioralAlerts: []models.BehavioralAlert{{Message: "Looked away often"}, {Message: " "}},
	}

	t.Run("structured", func(t *testing.T) {
		t.Parallel()
		backend := &stubBackend{respond: replyWith(`{
			"overall_score": 80.4, "communication_score": 120, "technical_score": 0,
			"confidence_score": 55, "body_language_score": 60,
			"strengths": ["Concise"], "detailed_feedback": "Solid.", "verdict": "READY FOR INTERVIEWS"
		}`)}
		svc := newTestInterview(t, backend)

		analysis := svc.AnalyzeInterview(context.Background(), transcript)
		assert.Equal(t, 80, analysis.OverallScore)
		assert.Equal(t, 100, analysis.CommunicationScore)
		assert.Equal(t, 1, analysis.TechnicalScore)
		assert.Equal(t, []string{"Concise"}, analysis.Strengths)
		assert.NotNil(t, analysis.AreasForImprovement)
		assert.Equal(t, "READY FOR INTERVIEWS", analysis.Verdict)

		prompt := backend.Requests()[0].Prompt
		assert.Contains(t, prompt, "- Looked away often")
		assert.Contains(t, prompt, "Job Role: Software Developer")
		assert.Contains(t, prompt, "Candidate Name: Candidate")
	})

	t.Run("raw_text_is_kept", func(t *testing.T) {
		t.Parallel()
		svc := newTestInterview(t, &stubBackend{respond: replyWith("You did well overall but should slow down.")})

		analysis := svc.AnalyzeInterview(context.Background(), transcript)
		assert.Equal(t, 75, analysis.OverallScore)
		assert.Equal(t, "You did well overall but should slow down.", analysis.DetailedFeedback)
		assert.Equal(t, reviewVerdict, analysis.Verdict)
	})

	t.Run("no_provider", func(t *testing.T) {
		t.Parallel()
		analysis := newTestInterview(t).AnalyzeInterview(context.Background(), transcript)
		assert.Equal(t, 0, analysis.OverallScore)
		assert.Equal(t, reviewVerdict, analysis.Verdict)
		assert.NotEmpty(t, analysis.DetailedFeedback)
	})
}

func TestRoundClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		v      float64
		lo, hi int
		want   int
	}{
		{"rounds", 6.5, 0, 10, 7},
		{"huge", 1e300, 0, 10, 10},
		{"huge_negative", -1e300, 0, 100, 0},
		{"percent_floor", 0, 1, 100, 1},
		{"percent_ceiling", 1e19, 1, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, roundClamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
}
