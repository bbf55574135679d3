package models

type StartInterviewResponse struct {
	DraftID    string     `json:"draft_id"`
	UserName   string     `json:"user_name"`
	JobRole    string     `json:"job_role"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []string   `json:"questions"`
}

type AnswerRequest struct {
	Question      string `json:"question" validate:"required_without=DraftID"`
	Answer        string `json:"answer"`
	JobRole       string `json:"job_role"`
	DraftID       string `json:"draft_id" validate:"omitempty,uuid"`
	QuestionIndex *int   `json:"question_index" validate:"omitempty,min=0"`
}

type AnswerResponse struct {
	Evaluation
	DraftID       string `json:"draft_id,omitempty"`
	QuestionIndex *int   `json:"question_index,omitempty"`
}

// SaveSessionRequest either finalizes a draft or carries the whole interview inline.
type SaveSessionRequest struct {
	UserID       string   `json:"user_id" validate:"required_without=DraftID,max=64"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Name         string   `json:"name"`
	DraftID      string   `json:"draft_id" validate:"omitempty,uuid"`
	JobRole      string   `json:"job_role" validate:"required_without=DraftID"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Questions    []string `json:"questions" validate:"required_without=DraftID"`
	Answers      []string `json:"answers"`
	Scores       []int    `json:"scores" validate:"dive,min=0,max=10"`
	Feedback     []string `json:"feedback_list"`
	IdealAnswers []string `json:"ideal_answers_list"`
}

type SaveSessionResponse struct {
	SessionID string  `json:"session_id"`
	AvgScore  float64 `json:"avg_score"`
	Qualified bool    `json:"qualified"`
	Message   string  `json:"message"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type CodingProblemRequest struct {
	Language   string `json:"language"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type CodeReviewRequest struct {
	Code     string `json:"code" validate:"required"`
	Problem  string `json:"problem"`
	Language string `json:"language"`
}

type AnalyzeRequest struct {
	Conversation     []ChatMessage     `json:"conversation" validate:"required,min=1,dive"`
	BehavioralAlerts []BehavioralAlert `json:"behavioral_alerts"`
	JobRole          string            `json:"job_role"`
	Difficulty       string            `json:"difficulty"`
	UserName         string            `json:"user_name"`
}

func (r AnalyzeRequest) Transcript() InterviewTranscript {
	return InterviewTranscript{
		Conversation:     r.Conversation,
		BehavioralAlerts: r.BehavioralAlerts,
		JobRole:          r.JobRole,
		Difficulty:       r.Difficulty,
		UserName:         r.UserName,
	}
}
