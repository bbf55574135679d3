package services

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/interview-coach/internal/models"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptFile struct {
	System   string `yaml:"system"`
	Guidance struct {
		Difficulty map[string]string `yaml:"difficulty"`
		Category   map[string]string `yaml:"category"`
	} `yaml:"guidance"`
	Templates map[string]string `yaml:"templates"`
}

// PromptBuilder renders the task prompts. It is read-only after construction.
type PromptBuilder struct {
	system     string
	difficulty map[string]string
	category   map[string]*template.Template
	templates  map[string]*template.Template
}

var promptFuncs = template.FuncMap{
	"lower": func(v any) string { return strings.ToLower(fmt.Sprint(v)) },
}

func NewPromptBuilder() (*PromptBuilder, error) {
	var file promptFile
	if err := yaml.Unmarshal(promptsYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	pb := &PromptBuilder{
		system:     strings.TrimSpace(file.System),
		difficulty: file.Guidance.Difficulty,
		category:   make(map[string]*template.Template, len(file.Guidance.Category)),
		templates:  make(map[string]*template.Template, len(file.Templates)),
	}

	for name, text := range file.Guidance.Category {
		tmpl, err := parseTemplate("category_"+name, text)
		if err != nil {
			return nil, err
		}
		pb.category[name] = tmpl
	}
	for name, text := range file.Templates {
		tmpl, err := parseTemplate(name, text)
		if err != nil {
			return nil, err
		}
		pb.templates[name] = tmpl
	}

	return pb, nil
}

// MustPromptBuilder panics on a malformed embedded prompt file.
func MustPromptBuilder() *PromptBuilder {
	pb, err := NewPromptBuilder()
	if err != nil {
		panic(err)
	}
	return pb
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(promptFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt %q: %w", name, err)
	}
	return tmpl, nil
}

// System is the shared system instruction.
func (pb *PromptBuilder) System() string {
	return pb.system
}

func (pb *PromptBuilder) render(name string, data any) (string, error) {
	tmpl, ok := pb.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// BuildQuestionPrompt expects resume to be truncated by the caller.
func (pb *PromptBuilder) BuildQuestionPrompt(resume, jobRole string, category models.Category, difficulty models.Difficulty) (string, error) {
	catTmpl, ok := pb.category[string(category)]
	if !ok {
		catTmpl = pb.category[string(models.CategoryTechnical)]
	}
	catGuidance, err := execute(catTmpl, struct{ JobRole string }{jobRole})
	if err != nil {
		return "", err
	}

	diffGuidance, ok := pb.difficulty[string(difficulty)]
	if !ok {
		diffGuidance = pb.difficulty[string(models.DifficultyMedium)]
	}

	return pb.render("questions", map[string]any{
		"Resume":             resume,
		"JobRole":            jobRole,
		"Category":           category,
		"Difficulty":         difficulty,
		"CategoryGuidance":   catGuidance,
		"DifficultyGuidance": diffGuidance,
	})
}

func (pb *PromptBuilder) BuildEvaluationPrompt(question, answer, jobRole string) (string, error) {
	return pb.render("evaluation", map[string]any{
		"Question": question,
		"Answer":   answer,
		"JobRole":  jobRole,
	})
}

func (pb *PromptBuilder) BuildChunkAnalysisPrompt(chunk models.Chunk, total int) (string, error) {
	return pb.render("chunk_analysis", map[string]any{
		"Position": chunk.Index + 1,
		"Total":    total,
		"Text":     chunk.Text,
	})
}

func (pb *PromptBuilder) BuildSynthesisPrompt(strengths, weaknesses, skills []string) (string, error) {
	return pb.render("resume_synthesis", map[string]any{
		"Strengths":  strengths,
		"Weaknesses": weaknesses,
		"Skills":     skills,
	})
}

type transcriptLine struct {
	Speaker string
	Content string
}

func transcript(messages []models.ChatMessage) []transcriptLine {
	lines := make([]transcriptLine, 0, len(messages))
	for _, m := range messages {
		speaker := "Candidate"
		switch m.Role {
		case "assistant":
			speaker = "Interviewer"
		case "system":
			speaker = "Context"
		}
		lines = append(lines, transcriptLine{Speaker: speaker, Content: strings.TrimSpace(m.Content)})
	}
	return lines
}

func (pb *PromptBuilder) BuildChatPrompt(messages []models.ChatMessage) (string, error) {
	return pb.render("chat_turn", map[string]any{
		"Messages": transcript(messages),
	})
}

func (pb *PromptBuilder) BuildChatContext(userName, jobRole string, difficulty models.Difficulty, resume string) (string, error) {
	return pb.render("chat_resume_context", map[string]any{
		"UserName":   userName,
		"JobRole":    jobRole,
		"Difficulty": difficulty,
		"Resume":     resume,
	})
}

func (pb *PromptBuilder) BuildExtractNamePrompt(resume string) (string, error) {
	return pb.render("extract_name", map[string]any{"Resume": resume})
}

func (pb *PromptBuilder) BuildCodingProblemPrompt(language, topic string, difficulty models.Difficulty) (string, error) {
	return pb.render("coding_problem", map[string]any{
		"Language":   language,
		"Topic":      topic,
		"Difficulty": difficulty,
	})
}

func (pb *PromptBuilder) BuildCodeReviewPrompt(code, problem, language string) (string, error) {
	return pb.render("code_review", map[string]any{
		"Code":     code,
		"Problem":  problem,
		"Language": language,
	})
}

func (pb *PromptBuilder) BuildSkillAnalysisPrompt(questions []string, scores []int) (string, error) {
	type item struct {
		Question string `json:"question"`
		Score    int    `json:"score"`
	}
	items := make([]item, 0, len(scores))
	for i, s := range scores {
		if i >= len(questions) {
			break
		}
		items = append(items, item{Question: questions[i], Score: s})
	}

	results, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return pb.render("skill_analysis", map[string]any{"Results": string(results)})
}

func (pb *PromptBuilder) BuildInterviewAnalysisPrompt(t models.InterviewTranscript) (string, error) {
	alerts := make([]string, 0, len(t.BehavioralAlerts))
	for _, a := range t.BehavioralAlerts {
		if msg := strings.TrimSpace(a.Message); msg != "" {
			alerts = append(alerts, msg)
		}
	}
	return pb.render("interview_analysis", map[string]any{
		"JobRole":    t.JobRole,
		"Difficulty": t.Difficulty,
		"UserName":   t.UserName,
		"Messages":   transcript(t.Conversation),
		"Alerts":     alerts,
	})
}

func (pb *PromptBuilder) BuildOCRPrompt() string {
	text, err := pb.render("ocr", nil)
	if err != nil {
		return "Transcribe all visible text in this image, preserving its structure."
	}
	return text
}
