package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

// scriptedBackend replies per operation and fails everything else.
type scriptedBackend struct {
	replies map[string]string
}

func (b *scriptedBackend) Name() string                    { return "scripted" }
func (b *scriptedBackend) SupportsSystemInstruction() bool { return true }

func (b *scriptedBackend) Generate(_ context.Context, req services.GenerationRequest) (string, error) {
	if text, ok := b.replies[req.Operation]; ok {
		return text, nil
	}
	return "", io.ErrUnexpectedEOF
}

var defaultReplies = map[string]string{
	"questions":          `["Q1?", "Q2?", "Q3?", "Q4?", "Q5?"]`,
	"evaluation":         `{"score": 8, "feedback": "Clear and correct.", "ideal_answer": "Ideal."}`,
	"extract_name":       "Jane Doe",
	"chat":               "Tell me about goroutines.",
	"coding_problem":     `{"title": "Two Sum", "description": "Find two numbers.", "starter_code": "func twoSum() {}"}`,
	"code_review":        `{"is_correct": true, "feedback": "Looks good."}`,
	"interview_analysis": `{"overall_score": 81, "detailed_feedback": "Good.", "verdict": "READY FOR INTERVIEWS"}`,
}

// fakeSessions records calls and answers from its fields.
type fakeSessions struct {
	mu        sync.Mutex
	saved     []services.SaveSessionInput
	draftIDs  []string
	saveErr   error
	report    *services.ReportBundle
	reportErr error
	deleteErr error
	details   *models.Session
}

func (f *fakeSessions) Save(_ context.Context, input services.SaveSessionInput) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, input)
	return &models.Session{ID: uuid.New(), AvgScore: 7.5, Qualified: true}, nil
}

func (f *fakeSessions) SaveDraft(_ context.Context, draftID, _, _, _ string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.draftIDs = append(f.draftIDs, draftID)
	return &models.Session{ID: uuid.New(), AvgScore: 8}, nil
}

func (f *fakeSessions) Details(context.Context, uuid.UUID) (*models.Session, error) {
	if f.details == nil {
		return nil, repositories.ErrSessionNotFound
	}
	return f.details, nil
}

func (f *fakeSessions) History(_ context.Context, _ string, limit int) ([]models.SessionSummary, error) {
	return make([]models.SessionSummary, min(limit, 2)), nil
}

func (f *fakeSessions) Stats(context.Context, string) (*models.UserStats, error) {
	return &models.UserStats{TotalInterviews: 3, AverageScore: 6.5, TopRole: "SRE"}, nil
}

func (f *fakeSessions) Analytics(context.Context, string) (*models.UserAnalytics, error) {
	return &models.UserAnalytics{TotalSessions: 3}, nil
}

func (f *fakeSessions) Delete(_ context.Context, _ uuid.UUID, userID string) error {
	if userID == "" {
		return services.ErrMissingUserID
	}
	return f.deleteErr
}

func (f *fakeSessions) Report(_ context.Context, _ uuid.UUID, _ string) (*services.ReportBundle, error) {
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.report, nil
}

type testServer struct {
	app      *fiber.App
	sessions *fakeSessions
	drafts   services.DraftStore
}

func newTestServer(t *testing.T, opts AppOptions) *testServer {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	prompts, err := services.NewPromptBuilder()
	require.NoError(t, err)

	gateway := services.NewGateway(&scriptedBackend{replies: defaultReplies})
	interview := services.NewInterviewService(gateway, prompts, services.InterviewOptions{})
	chunker := services.NewTextChunker(400)
	resumes := services.NewResumeService(
		services.NewExtractor(nil, prompts),
		chunker,
		services.NewResumeAnalyzer(gateway, prompts, services.AnalyzerOptions{}),
		interview,
	)

	s := &testServer{
		sessions: &fakeSessions{},
		drafts:   services.NewDraftStore(client, time.Hour),
	}
	if opts.BodyLimit == 0 {
		opts.BodyLimit = 4 << 20
	}
	s.app = NewApp(opts, Handlers{
		Interview: NewInterviewHandler(interview, resumes, services.NewUploadService(1<<20), s.drafts, s.sessions),
		Coding:    NewCodingHandler(services.NewCodingService(gateway, prompts)),
		User:      NewUserHandler(s.sessions),
	})
	return s
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &decoded))
	}
	return resp.StatusCode, decoded
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		data, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func httptestRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
