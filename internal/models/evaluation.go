package models

import "strings"

type Category string

const (
	CategoryTechnical  Category = "Technical"
	CategoryBehavioral Category = "Behavioral"
	CategoryHR         Category = "HR"
)

// ParseCategory is case-insensitive and falls back to Technical.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "behavioral", "behavioural":
		return CategoryBehavioral
	case "hr":
		return CategoryHR
	default:
		return CategoryTechnical
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty is case-insensitive and falls back to Medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Evaluation is the scored feedback for one answer. Score is in [0,10].
type Evaluation struct {
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
	IdealAnswer string `json:"ideal_answer"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type ChatContext struct {
	Context  string `json:"context"`
	Preview  string `json:"preview"`
	UserName string `json:"user_name"`
}

type CodingExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type CodingProblem struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Examples    []CodingExample `json:"examples"`
	Constraints []string        `json:"constraints"`
	StarterCode string          `json:"starter_code"`
}

type CodeReview struct {
	IsCorrect        bool     `json:"is_correct"`
	Feedback         string   `json:"feedback"`
	Bugs             []string `json:"bugs"`
	OptimizationTips []string `json:"optimization_tips"`
}

// BehavioralAlert is an observation from the client-side proctoring view.
type BehavioralAlert struct {
	Message string `json:"message"`
}

type InterviewTranscript struct {
	Conversation     []ChatMessage     `json:"conversation"`
	BehavioralAlerts []BehavioralAlert `json:"behavioral_alerts"`
	JobRole          string            `json:"job_role"`
	Difficulty       string            `json:"difficulty"`
	UserName         string            `json:"user_name"`
}
