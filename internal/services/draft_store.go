package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"alfredoptarigan/interview-coach/internal/models"
)

var (
	ErrDraftNotFound        = errors.New("interview draft not found or expired")
	ErrInvalidQuestionIndex = errors.New("question index out of range")
)

const draftKeyPrefix = "draft:"

// SessionDraft is an interview in progress. It lives in redis until saved or expired.
type SessionDraft struct {
	ID          string                    `json:"id"`
	UserID      string                    `json:"user_id,omitempty"`
	UserName    string                    `json:"user_name"`
	JobRole     string                    `json:"job_role"`
	Category    models.Category           `json:"category"`
	Difficulty  models.Difficulty         `json:"difficulty"`
	Questions   []string                  `json:"questions"`
	Answers     map[int]string            `json:"answers"`
	Evaluations map[int]models.Evaluation `json:"evaluations"`
	CreatedAt   time.Time                 `json:"created_at"`
}

type DraftStore interface {
	Create(ctx context.Context, draft *SessionDraft) error
	Get(ctx context.Context, id string) (*SessionDraft, error)
	RecordAnswer(ctx context.Context, id string, index int, answer string, eval models.Evaluation) (*SessionDraft, error)
	Delete(ctx context.Context, id string) error
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisDraftStore{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// Create implements DraftStore. An empty ID is filled with a new UUID.
func (s *redisDraftStore) Create(ctx context.Context, draft *SessionDraft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}
	if draft.Answers == nil {
		draft.Answers = map[int]string{}
	}
	if draft.Evaluations == nil {
		draft.Evaluations = map[int]models.Evaluation{}
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// Get implements DraftStore.
func (s *redisDraftStore) Get(ctx context.Context, id string) (*SessionDraft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return decodeDraft(data)
}

func decodeDraft(data []byte) (*SessionDraft, error) {
	var draft SessionDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if draft.Answers == nil {
		draft.Answers = map[int]string{}
	}
	if draft.Evaluations == nil {
		draft.Evaluations = map[int]models.Evaluation{}
	}
	return &draft, nil
}

// RecordAnswer implements DraftStore. The update is optimistic and retried once on a concurrent write.
func (s *redisDraftStore) RecordAnswer(ctx context.Context, id string, index int, answer string, eval models.Evaluation) (*SessionDraft, error) {
	key := draftKey(id)
	var updated *SessionDraft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrDraftNotFound
			}
			return err
		}

		draft, err := decodeDraft(data)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(draft.Questions) {
			return fmt.Errorf("%w: %d", ErrInvalidQuestionIndex, index)
		}
		draft.Answers[index] = answer
		draft.Evaluations[index] = eval

		encoded, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			updated = draft
		}
		return err
	}

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) || errors.Is(err, ErrInvalidQuestionIndex) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}
	return updated, nil
}

// Delete implements DraftStore.
func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
