package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]Category{
		"Technical":   CategoryTechnical,
		" behavioral": CategoryBehavioral,
		"Behavioural": CategoryBehavioral,
		"HR":          CategoryHR,
		"hr":          CategoryHR,
		"":            CategoryTechnical,
		"culture":     CategoryTechnical,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCategory(in), in)
	}
}

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	tests := map[string]Difficulty{
		"easy":   DifficultyEasy,
		"HARD ":  DifficultyHard,
		"Medium": DifficultyMedium,
		"":       DifficultyMedium,
		"expert": DifficultyMedium,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDifficulty(in), in)
	}
}

func TestDocument(t *testing.T) {
	t.Parallel()

	var empty Document
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "", empty.Text())

	doc := Document{Pages: []Page{{PageNumber: 1, Text: "first"}, {PageNumber: 2, Text: "second"}}}
	assert.False(t, doc.IsEmpty())
	assert.Equal(t, "first second", doc.Text())
}

func TestResumeAnalysisNormalize(t *testing.T) {
	t.Parallel()

	a := ResumeAnalysis{ATSScore: 130, Strengths: []string{"Go"}}
	a.Normalize()
	assert.Equal(t, 100, a.ATSScore)
	assert.Equal(t, []string{"Go"}, a.Strengths)
	assert.NotNil(t, a.Weaknesses)
	assert.NotNil(t, a.MissingSkills)
	assert.NotNil(t, a.SuggestedRoles)

	b := ResumeAnalysis{ATSScore: -5}
	b.Normalize()
	assert.Equal(t, 0, b.ATSScore)
}

func TestChunkResultOK(t *testing.T) {
	t.Parallel()

	assert.True(t, ChunkResult{Analysis: &PartialAnalysis{}}.OK())
	assert.False(t, ChunkResult{}.OK())
	assert.False(t, ChunkResult{Analysis: &PartialAnalysis{}, Err: assert.AnError}.OK())
}

func TestAnalyzeRequestTranscript(t *testing.T) {
	t.Parallel()

	req := AnalyzeRequest{
		Conversation: []ChatMessage{{Role: "user", Content: "hi"}},
		JobRole:      "SRE",
		UserName:     "Sam",
	}
	tr := req.Transcript()
	assert.Equal(t, req.Conversation, tr.Conversation)
	assert.Equal(t, "SRE", tr.JobRole)
	assert.Equal(t, "Sam", tr.UserName)
}
