package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

// memorySessionRepo is an in-memory repositories.SessionRepository.
type memorySessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*models.Session
	createErr error
	updateErr error
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[uuid.UUID]*models.Session{}}
}

func (r *memorySessionRepo) Create(session *models.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *memorySessionRepo) FindByID(id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepo) FindByUser(userID string, limit int) ([]models.SessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.SessionSummary{}
	for _, s := range r.sessions {
		if s.UserID == userID && len(out) < limit {
			out = append(out, models.SessionSummary{ID: s.ID, Role: s.JobRole, Date: s.CreatedAt, Score: s.AvgScore, Qualified: s.Qualified})
		}
	}
	return out, nil
}

func (r *memorySessionRepo) Stats(userID string) (*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.UserStats{}
	for _, s := range r.sessions {
		if s.UserID == userID {
			stats.TotalInterviews++
		}
	}
	return stats, nil
}

func (r *memorySessionRepo) Analytics(userID string) (*models.UserAnalytics, error) {
	stats, _ := r.Stats(userID)
	return &models.UserAnalytics{TotalSessions: stats.TotalInterviews}, nil
}

func (r *memorySessionRepo) Delete(id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return repositories.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) UpdateAnalysisStatus(id uuid.UUID, status models.AnalysisStatus) error {
	return r.mutate(id, func(s *models.Session) { s.AnalysisStatus = status })
}

func (r *memorySessionRepo) UpdateAnalysis(id uuid.UUID, analysis *models.SkillAnalysis) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.mutate(id, func(s *models.Session) {
		s.AnalysisStatus = models.AnalysisCompleted
		s.SkillAnalysis = analysis
		s.AnalysisError = nil
	})
}

func (r *memorySessionRepo) UpdateAnalysisError(id uuid.UUID, errorMsg string) error {
	return r.mutate(id, func(s *models.Session) {
		s.AnalysisStatus = models.AnalysisFailed
		s.AnalysisError = &errorMsg
	})
}

func (r *memorySessionRepo) FindPendingAnalyses(limit int) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Session
	for _, s := range r.sessions {
		if s.AnalysisStatus == models.AnalysisQueued && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memorySessionRepo) mutate(id uuid.UUID, fn func(*models.Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	fn(s)
	return nil
}

func (r *memorySessionRepo) status(id uuid.UUID) models.AnalysisStatus {
	s, err := r.FindByID(id)
	if err != nil {
		return ""
	}
	return s.AnalysisStatus
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func (r *memoryUserRepo) Upsert(user *models.User) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users == nil {
		r.users = map[string]models.User{}
	}
	r.users[user.ID] = *user
	return nil
}

type recordingWorker struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (w *recordingWorker) Start(context.Context) {}
func (w *recordingWorker) Stop()                 {}

func (w *recordingWorker) Enqueue(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueued = append(w.enqueued, id)
}

// memoryDraftStore is a map-backed DraftStore.
type memoryDraftStore struct {
	mu        sync.Mutex
	drafts    map[string]*SessionDraft
	deleteErr error
}

func newMemoryDraftStore(drafts ...*SessionDraft) *memoryDraftStore {
	s := &memoryDraftStore{drafts: map[string]*SessionDraft{}}
	for _, d := range drafts {
		s.drafts[d.ID] = d
	}
	return s
}

func (s *memoryDraftStore) Create(_ context.Context, draft *SessionDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	s.drafts[draft.ID] = draft
	return nil
}

func (s *memoryDraftStore) Get(_ context.Context, id string) (*SessionDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *memoryDraftStore) RecordAnswer(_ context.Context, id string, index int, answer string, eval models.Evaluation) (*SessionDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if index < 0 || index >= len(d.Questions) {
		return nil, ErrInvalidQuestionIndex
	}
	if d.Answers == nil {
		d.Answers = map[int]string{}
		d.Evaluations = map[int]models.Evaluation{}
	}
	d.Answers[index] = answer
	d.Evaluations[index] = eval
	return d, nil
}

func (s *memoryDraftStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func (s *memoryDraftStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[id]
	return ok
}
