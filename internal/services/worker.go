package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

const (
	defaultPollInterval = 10 * time.Second
	pendingBatchSize    = 10
	jobQueueSize        = 100
)

var errNoResponses = errors.New("session has no responses to analyze")

// Worker computes skill analyses for saved sessions in the background.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(sessionID uuid.UUID)
}

type sessionAnalysisWorker struct {
	sessionRepo  repositories.SessionRepository
	interview    InterviewService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopOnce     sync.Once
	stopChan     chan struct{}
}

func NewWorker(
	sessionRepo repositories.SessionRepository,
	interview InterviewService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &sessionAnalysisWorker{
		sessionRepo:  sessionRepo,
		interview:    interview,
		jobQueue:     make(chan uuid.UUID, jobQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *sessionAnalysisWorker) Start(ctx context.Context) {
	logger.Info().Int("concurrency", w.concurrency).Msg("starting session analysis worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPending(ctx)
}

// Stop implements Worker. Jobs still in the queue stay queued in the database.
func (w *sessionAnalysisWorker) Stop() {
	w.stopOnce.Do(func() {
		logger.Info().Msg("stopping session analysis worker")
		close(w.stopChan)
		w.wg.Wait()
		logger.Info().Msg("session analysis worker stopped")
	})
}

// Enqueue implements Worker. It never blocks; a full queue leaves the job to the poller.
func (w *sessionAnalysisWorker) Enqueue(sessionID uuid.UUID) {
	select {
	case <-w.stopChan:
		logger.Warn().Str("session_id", sessionID.String()).Msg("worker stopped, job left for next start")
		return
	default:
	}

	select {
	case w.jobQueue <- sessionID:
		logger.Debug().Str("session_id", sessionID.String()).Msg("analysis job enqueued")
	default:
		logger.Warn().Str("session_id", sessionID.String()).Msg("analysis queue full, job left for poller")
	}
}

func (w *sessionAnalysisWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case sessionID := <-w.jobQueue:
			log := logger.Logger.With().Int("worker", workerID).Str("session_id", sessionID.String()).Logger()
			if err := w.analyze(ctx, sessionID); err != nil {
				log.Error().Err(err).Msg("session analysis failed")
			} else {
				log.Info().Msg("session analysis completed")
			}
		}
	}
}

// analyze moves a session through processing to completed or failed.
func (w *sessionAnalysisWorker) analyze(ctx context.Context, sessionID uuid.UUID) error {
	session, err := w.sessionRepo.FindByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.AnalysisStatus != models.AnalysisQueued {
		return nil
	}

	if err := w.sessionRepo.UpdateAnalysisStatus(sessionID, models.AnalysisProcessing); err != nil {
		return err
	}

	if len(session.Responses) == 0 {
		if err := w.sessionRepo.UpdateAnalysisError(sessionID, errNoResponses.Error()); err != nil {
			return err
		}
		return errNoResponses
	}

	questions := make([]string, len(session.Responses))
	scores := make([]int, len(session.Responses))
	for i, r := range session.Responses {
		questions[i] = r.Question
		scores[i] = r.Score
	}

	analysis := w.interview.SkillAnalysis(ctx, questions, scores)
	if err := w.sessionRepo.UpdateAnalysis(sessionID, &analysis); err != nil {
		_ = w.sessionRepo.UpdateAnalysisError(sessionID, err.Error())
		return err
	}
	return nil
}

func (w *sessionAnalysisWorker) pollPending(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.sessionRepo.FindPendingAnalyses(pendingBatchSize)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to fetch pending analyses")
				continue
			}
			if len(pending) > 0 {
				logger.Info().Int("count", len(pending)).Msg("re-enqueueing pending analyses")
			}
			for _, s := range pending {
				w.Enqueue(s.ID)
			}
		}
	}
}
