package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is one row of a user's interview history.
type SessionSummary struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"`
	Qualified bool      `json:"qualified"`
}

type UserStats struct {
	TotalInterviews int64   `json:"total_interviews"`
	AverageScore    float64 `json:"average_score"`
	TopRole         string  `json:"top_role"`
}

type CategoryStat struct {
	Category string  `json:"category"`
	AvgScore float64 `json:"avg_score"`
	Count    int64   `json:"count"`
}

type TrendPoint struct {
	Date     time.Time `json:"date"`
	AvgScore float64   `json:"avg_score"`
}

type UserAnalytics struct {
	TotalSessions   int64          `json:"total_sessions"`
	OverallAvgScore float64        `json:"overall_avg_score"`
	BestScore       float64        `json:"best_score"`
	QualifiedCount  int64          `json:"qualified_count"`
	CategoryStats   []CategoryStat `json:"category_stats"`
	Trend           []TrendPoint   `json:"trend"`
}
