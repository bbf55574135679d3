package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-coach/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(id uuid.UUID) (*models.Session, error)
	FindByUser(userID string, limit int) ([]models.SessionSummary, error)
	Stats(userID string) (*models.UserStats, error)
	Analytics(userID string) (*models.UserAnalytics, error)
	Delete(id uuid.UUID, userID string) error
	UpdateAnalysisStatus(id uuid.UUID, status models.AnalysisStatus) error
	UpdateAnalysis(id uuid.UUID, analysis *models.SkillAnalysis) error
	UpdateAnalysisError(id uuid.UUID, errorMsg string) error
	FindPendingAnalyses(limit int) ([]models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create stores the session and its responses in one transaction.
func (r *sessionRepository) Create(session *models.Session) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(session).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_index ASC")
		}).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) FindByUser(userID string, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	var summaries []models.SessionSummary
	err := r.db.Model(&models.Session{}).
		Select("id, job_role AS role, created_at AS date, avg_score AS score, qualified").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}
	if summaries == nil {
		summaries = []models.SessionSummary{}
	}
	return summaries, nil
}

func (r *sessionRepository) Stats(userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.Model(&models.Session{}).
		Select("COUNT(*) AS total_interviews, COALESCE(AVG(avg_score), 0) AS average_score").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	var top struct{ JobRole string }
	err = r.db.Model(&models.Session{}).
		Select("job_role").
		Where("user_id = ?", userID).
		Group("job_role").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top role: %w", err)
	}
	stats.TopRole = top.JobRole

	return &stats, nil
}

func (r *sessionRepository) Analytics(userID string) (*models.UserAnalytics, error) {
	var analytics models.UserAnalytics
	err := r.db.Model(&models.Session{}).
		Select(`COUNT(*) AS total_sessions,
			COALESCE(AVG(avg_score), 0) AS overall_avg_score,
			COALESCE(MAX(avg_score), 0) AS best_score,
			COALESCE(SUM(CASE WHEN qualified THEN 1 ELSE 0 END), 0) AS qualified_count`).
		Where("user_id = ?", userID).
		Scan(&analytics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	err = r.db.Model(&models.Session{}).
		Select("category, AVG(avg_score) AS avg_score, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&analytics.CategoryStats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load category stats: %w", err)
	}

	err = r.db.Model(&models.Session{}).
		Select("DATE(created_at) AS date, AVG(avg_score) AS avg_score").
		Where("user_id = ? AND created_at >= ?", userID, time.Now().AddDate(0, 0, -30)).
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&analytics.Trend).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load score trend: %w", err)
	}

	if analytics.CategoryStats == nil {
		analytics.CategoryStats = []models.CategoryStat{}
	}
	if analytics.Trend == nil {
		analytics.Trend = []models.TrendPoint{}
	}
	return &analytics, nil
}

// Delete only removes a session owned by userID.
func (r *sessionRepository) Delete(id uuid.UUID, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) UpdateAnalysisStatus(id uuid.UUID, status models.AnalysisStatus) error {
	return r.update(id, map[string]interface{}{
		"analysis_status": status,
	})
}

func (r *sessionRepository) UpdateAnalysis(id uuid.UUID, analysis *models.SkillAnalysis) error {
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode skill analysis: %w", err)
	}
	return r.update(id, map[string]interface{}{
		"analysis_status": models.AnalysisCompleted,
		"skill_analysis":  string(encoded),
		"analysis_error":  nil,
	})
}

func (r *sessionRepository) UpdateAnalysisError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"analysis_status": models.AnalysisFailed,
		"analysis_error":  errorMsg,
	})
}

func (r *sessionRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) FindPendingAnalyses(limit int) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.
		Where("analysis_status = ?", models.AnalysisQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending analyses: %w", err)
	}
	return sessions, nil
}
