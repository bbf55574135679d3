package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// QualifiedThreshold is the minimum average score for a session to count as qualified.
const QualifiedThreshold = 6.5

type User struct {
	ID        string    `gorm:"type:varchar(64);primary_key" json:"id"`
	Email     string    `gorm:"type:text" json:"email"`
	Name      string    `gorm:"type:text" json:"name"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Session struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         string         `gorm:"type:varchar(64);index;not null" json:"user_id"`
	JobRole        string         `gorm:"type:text" json:"job_role"`
	Category       string         `gorm:"type:varchar(32)" json:"category"`
	Difficulty     string         `gorm:"type:varchar(16)" json:"difficulty"`
	AvgScore       float64        `gorm:"type:decimal(4,2)" json:"avg_score"`
	Qualified      bool           `json:"qualified"`
	AnalysisStatus AnalysisStatus `gorm:"type:varchar(16);not null;default:'queued'" json:"analysis_status"`
	SkillAnalysis  *SkillAnalysis `gorm:"type:text;serializer:json" json:"skill_analysis,omitempty"`
	AnalysisError  *string        `gorm:"type:text" json:"analysis_error,omitempty"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Responses []Response `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

type Response struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     uuid.UUID `gorm:"type:uuid;index;not null" json:"session_id"`
	QuestionIndex int       `json:"question_index"`
	Question      string    `gorm:"type:text" json:"question"`
	Answer        string    `gorm:"type:text" json:"answer"`
	Score         int       `json:"score"`
	Feedback      string    `gorm:"type:text" json:"feedback"`
	IdealAnswer   string    `gorm:"type:text" json:"ideal_answer"`
}

func (Response) TableName() string {
	return "responses"
}
