package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

var (
	ErrNoResponses     = errors.New("session has no answered questions")
	ErrMissingUserID   = errors.New("user_id is required")
	ErrResponseMissing = errors.New("questions and evaluations do not line up")
)

const defaultReportName = "Reviewer"

// SaveSessionInput is a finished interview. Answers and Evaluations are indexed like Questions.
// QuestionIndexes, when set, holds the original question index of each entry.
type SaveSessionInput struct {
	UserID      string
	Email       string
	Name        string
	JobRole     string
	Category    models.Category
	Difficulty  models.Difficulty
	Questions   []string
	Answers     []string
	Evaluations []models.Evaluation

	QuestionIndexes []int
}

// ReportBundle is everything an external renderer needs to produce the interview report.
type ReportBundle struct {
	SessionID       uuid.UUID             `json:"session_id"`
	UserName        string                `json:"user_name"`
	JobRole         string                `json:"job_role"`
	Category        string                `json:"category"`
	Difficulty      string                `json:"difficulty"`
	Date            time.Time             `json:"date"`
	AvgScore        float64               `json:"avg_score"`
	Qualified       bool                  `json:"qualified"`
	Responses       []models.Response     `json:"responses"`
	AnalysisStatus  models.AnalysisStatus `json:"analysis_status"`
	SkillAnalysis   *models.SkillAnalysis `json:"skill_analysis,omitempty"`
	Recommendations []string              `json:"recommendations"`
}

type SessionService interface {
	Save(ctx context.Context, input SaveSessionInput) (*models.Session, error)
	SaveDraft(ctx context.Context, draftID, userID, email, name string) (*models.Session, error)
	Details(ctx context.Context, id uuid.UUID) (*models.Session, error)
	History(ctx context.Context, userID string, limit int) ([]models.SessionSummary, error)
	Stats(ctx context.Context, userID string) (*models.UserStats, error)
	Analytics(ctx context.Context, userID string) (*models.UserAnalytics, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Report(ctx context.Context, id uuid.UUID, userName string) (*ReportBundle, error)
}

type sessionService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	drafts      DraftStore
	worker      Worker
}

func NewSessionService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	drafts DraftStore,
	worker Worker,
) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		drafts:      drafts,
		worker:      worker,
	}
}

// Save implements SessionService.
func (s *sessionService) Save(ctx context.Context, input SaveSessionInput) (*models.Session, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrMissingUserID
	}
	if len(input.Evaluations) > len(input.Questions) {
		return nil, ErrResponseMissing
	}
	if input.QuestionIndexes != nil && len(input.QuestionIndexes) != len(input.Evaluations) {
		return nil, ErrResponseMissing
	}

	responses := make([]models.Response, 0, len(input.Evaluations))
	for i, eval := range input.Evaluations {
		answer := ""
		if i < len(input.Answers) {
			answer = input.Answers[i]
		}
		index := i
		if input.QuestionIndexes != nil {
			index = input.QuestionIndexes[i]
		}
		responses = append(responses, models.Response{
			QuestionIndex: index,
			Question:      input.Questions[i],
			Answer:        answer,
			Score:         clampInt(eval.Score, 0, 10),
			Feedback:      eval.Feedback,
			IdealAnswer:   eval.IdealAnswer,
		})
	}
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	if err := s.userRepo.Upsert(&models.User{ID: input.UserID, Email: input.Email, Name: input.Name}); err != nil {
		return nil, err
	}

	avg := AverageScore(responses)
	session := &models.Session{
		ID:             uuid.New(),
		UserID:         input.UserID,
		JobRole:        input.JobRole,
		Category:       string(input.Category),
		Difficulty:     string(input.Difficulty),
		AvgScore:       avg,
		Qualified:      IsQualified(avg),
		AnalysisStatus: models.AnalysisQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Responses:      responses,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	metrics.SessionsSavedTotal.Inc()
	logger.Ctx(ctx).Info().
		Str("session_id", session.ID.String()).
		Str("user_id", session.UserID).
		Float64("avg_score", session.AvgScore).
		Bool("qualified", session.Qualified).
		Msg("session saved")

	if s.worker != nil {
		s.worker.Enqueue(session.ID)
	}
	return session, nil
}

// SaveDraft implements SessionService. Only answered questions are stored and the draft is removed afterwards.
func (s *sessionService) SaveDraft(ctx context.Context, draftID, userID, email, name string) (*models.Session, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = draft.UserID
	}
	if name == "" {
		name = draft.UserName
	}

	indexes := make([]int, 0, len(draft.Evaluations))
	for i := range draft.Evaluations {
		if i >= 0 && i < len(draft.Questions) {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	input := SaveSessionInput{
		UserID:          userID,
		Email:           email,
		Name:            name,
		JobRole:         draft.JobRole,
		Category:        draft.Category,
		Difficulty:      draft.Difficulty,
		QuestionIndexes: indexes,
	}
	for _, i := range indexes {
		input.Questions = append(input.Questions, draft.Questions[i])
		input.Answers = append(input.Answers, draft.Answers[i])
		input.Evaluations = append(input.Evaluations, draft.Evaluations[i])
	}

	session, err := s.Save(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("draft_id", draftID).Msg("failed to delete saved draft")
	}
	return session, nil
}

// Details implements SessionService.
func (s *sessionService) Details(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return s.sessionRepo.FindByID(id)
}

// History implements SessionService.
func (s *sessionService) History(ctx context.Context, userID string, limit int) ([]models.SessionSummary, error) {
	return s.sessionRepo.FindByUser(userID, limit)
}

// Stats implements SessionService.
func (s *sessionService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	return s.sessionRepo.Stats(userID)
}

// Analytics implements SessionService.
func (s *sessionService) Analytics(ctx context.Context, userID string) (*models.UserAnalytics, error) {
	return s.sessionRepo.Analytics(userID)
}

// Delete implements SessionService.
func (s *sessionService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	if err := s.sessionRepo.Delete(id, userID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Str("session_id", id.String()).Str("user_id", userID).Msg("session deleted")
	return nil
}

// Report implements SessionService.
func (s *sessionService) Report(ctx context.Context, id uuid.UUID, userName string) (*ReportBundle, error) {
	session, err := s.sessionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userName) == "" {
		userName = defaultReportName
	}

	responses := session.Responses
	if responses == nil {
		responses = []models.Response{}
	}

	return &ReportBundle{
		SessionID:       session.ID,
		UserName:        userName,
		JobRole:         session.JobRole,
		Category:        session.Category,
		Difficulty:      session.Difficulty,
		Date:            session.CreatedAt,
		AvgScore:        session.AvgScore,
		Qualified:       session.Qualified,
		Responses:       responses,
		AnalysisStatus:  session.AnalysisStatus,
		SkillAnalysis:   session.SkillAnalysis,
		Recommendations: Recommendations(session.AvgScore),
	}, nil
}

// AverageScore is the mean response score rounded to two decimals.
func AverageScore(responses []models.Response) float64 {
	if len(responses) == 0 {
		return 0
	}
	total := 0
	for _, r := range responses {
		total += r.Score
	}
	avg := float64(total) / float64(len(responses))
	return math.Round(avg*100) / 100
}

func IsQualified(avg float64) bool {
	return avg >= models.QualifiedThreshold
}

// Recommendations picks the report advice band for an average score.
func Recommendations(avg float64) []string {
	switch {
	case avg < 5:
		return []string{
			"Focus on fundamentals: strengthen the core concepts for this role",
			"Practice with more questions at an easier difficulty first",
			"Write out detailed answers to reinforce learning",
		}
	case avg < 7:
		return []string{
			"Good foundation: add more specific examples from your experience",
			"Dive deeper into advanced topics",
			"Practice articulating your thoughts clearly",
		}
	default:
		return []string{
			"Excellent performance: keep up the great work",
			"Challenge yourself with harder difficulty levels",
			"Consider mock interviews for additional practice",
		}
	}
}
