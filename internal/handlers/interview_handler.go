package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type InterviewHandler struct {
	interview services.InterviewService
	resumes   services.ResumeService
	uploads   services.UploadService
	drafts    services.DraftStore
	sessions  services.SessionService
}

func NewInterviewHandler(
	interview services.InterviewService,
	resumes services.ResumeService,
	uploads services.UploadService,
	drafts services.DraftStore,
	sessions services.SessionService,
) *InterviewHandler {
	return &InterviewHandler{
		interview: interview,
		resumes:   resumes,
		uploads:   uploads,
		drafts:    drafts,
		sessions:  sessions,
	}
}

// HandleStart handles POST /api/interview/start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	ctx := c.UserContext()

	jobRole := strings.TrimSpace(c.FormValue("job_role"))
	category := models.ParseCategory(c.FormValue("category"))
	difficulty := models.ParseDifficulty(c.FormValue("difficulty"))

	resumeText := strings.TrimSpace(c.FormValue("resume_text"))
	if file, err := c.FormFile("resume_file"); err == nil {
		upload, err := h.uploads.Read(file)
		if err != nil {
			return uploadError(c, err)
		}
		_, resumeText = h.resumes.ExtractText(ctx, upload.Filename, upload.Data)
		resumeText = strings.TrimSpace(resumeText)
	}

	if resumeText == "" || jobRole == "" {
		return badRequest(c, "Missing resume file/text or job role")
	}

	questions := h.interview.GenerateQuestions(ctx, resumeText, jobRole, category, difficulty)
	userName := h.interview.ExtractName(ctx, resumeText)

	draft := &services.SessionDraft{
		UserID:     strings.TrimSpace(c.FormValue("user_id")),
		UserName:   userName,
		JobRole:    jobRole,
		Category:   category,
		Difficulty: difficulty,
		Questions:  questions,
	}
	if err := h.drafts.Create(ctx, draft); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to store interview draft")
		return internalError(c, "Failed to start interview")
	}

	return c.JSON(models.StartInterviewResponse{
		DraftID:    draft.ID,
		UserName:   userName,
		JobRole:    jobRole,
		Category:   category,
		Difficulty: difficulty,
		Questions:  questions,
	})
}

// HandleAnswer handles POST /api/interview/answer
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req models.AnswerRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if req.DraftID == "" {
		if strings.TrimSpace(req.Question) == "" {
			return badRequest(c, "question is required")
		}
		eval := h.interview.EvaluateAnswer(ctx, req.Question, req.Answer, req.JobRole)
		return c.JSON(models.AnswerResponse{Evaluation: eval})
	}

	if req.QuestionIndex == nil {
		return badRequest(c, "question_index is required with draft_id")
	}

	draft, err := h.drafts.Get(ctx, req.DraftID)
	if err != nil {
		return draftError(c, err)
	}
	index := *req.QuestionIndex
	if index >= len(draft.Questions) {
		return badRequest(c, "question_index out of range")
	}

	question := req.Question
	if strings.TrimSpace(question) == "" {
		question = draft.Questions[index]
	}
	jobRole := req.JobRole
	if jobRole == "" {
		jobRole = draft.JobRole
	}

	eval := h.interview.EvaluateAnswer(ctx, question, req.Answer, jobRole)
	if _, err := h.drafts.RecordAnswer(ctx, req.DraftID, index, req.Answer, eval); err != nil {
		return draftError(c, err)
	}

	return c.JSON(models.AnswerResponse{
		Evaluation:    eval,
		DraftID:       req.DraftID,
		QuestionIndex: req.QuestionIndex,
	})
}

// HandleSave handles POST /api/interview/save
func (h *InterviewHandler) HandleSave(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req models.SaveSessionRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	var (
		session *models.Session
		err     error
	)
	if req.DraftID != "" {
		session, err = h.sessions.SaveDraft(ctx, req.DraftID, req.UserID, req.Email, req.Name)
	} else {
		session, err = h.sessions.Save(ctx, saveInput(req))
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDraftNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrNoResponses),
			errors.Is(err, services.ErrMissingUserID),
			errors.Is(err, services.ErrResponseMissing):
			return badRequest(c, err.Error())
		}
		logger.Ctx(ctx).Error().Err(err).Msg("failed to save session")
		return internalError(c, "Failed to save session")
	}

	return c.Status(fiber.StatusCreated).JSON(models.SaveSessionResponse{
		SessionID: session.ID.String(),
		AvgScore:  session.AvgScore,
		Qualified: session.Qualified,
		Message:   "Session saved successfully",
	})
}

// saveInput lines the parallel request lists up by question index. Scores bound the number of responses.
func saveInput(req models.SaveSessionRequest) services.SaveSessionInput {
	evals := make([]models.Evaluation, 0, len(req.Scores))
	for i, score := range req.Scores {
		evals = append(evals, models.Evaluation{
			Score:       score,
			Feedback:    at(req.Feedback, i),
			IdealAnswer: at(req.IdealAnswers, i),
		})
	}
	return services.SaveSessionInput{
		UserID:      req.UserID,
		Email:       req.Email,
		Name:        req.Name,
		JobRole:     req.JobRole,
		Category:    models.ParseCategory(req.Category),
		Difficulty:  models.ParseDifficulty(req.Difficulty),
		Questions:   req.Questions,
		Answers:     req.Answers,
		Evaluations: evals,
	}
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// HandleReport handles GET /api/interview/report/:id
func (h *InterviewHandler) HandleReport(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session ID format")
	}

	bundle, err := h.sessions.Report(c.UserContext(), sessionID, c.Query("name"))
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return notFound(c, "Session not found")
		}
		return internalError(c, "Failed to build report")
	}
	return c.JSON(bundle)
}

// HandleResumeAnalyze handles POST /api/interview/resume/analyze
func (h *InterviewHandler) HandleResumeAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}
	upload, err := h.uploads.Read(file)
	if err != nil {
		return uploadError(c, err)
	}

	started := time.Now()
	analysis := h.resumes.Analyze(c.UserContext(), upload.Filename, upload.Data)
	logger.Ctx(c.UserContext()).Info().
		Str("file", upload.Filename).
		Int("ats_score", analysis.ATSScore).
		Dur("took", time.Since(started)).
		Msg("resume analyzed")

	return c.JSON(analysis)
}

// HandleChat handles POST /api/interview/chat
func (h *InterviewHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	return c.JSON(models.ChatResponse{Reply: h.interview.Chat(c.UserContext(), req.Messages)})
}

// HandleChatResume handles POST /api/interview/chat/resume
func (h *InterviewHandler) HandleChatResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}
	upload, err := h.uploads.Read(file)
	if err != nil {
		return uploadError(c, err)
	}

	chatCtx, err := h.resumes.ChatResumeContext(
		c.UserContext(),
		upload.Filename,
		upload.Data,
		c.FormValue("job_role"),
		models.ParseDifficulty(c.FormValue("difficulty")),
	)
	if err != nil {
		if errors.Is(err, services.ErrNoResumeText) {
			return badRequest(c, "Could not extract text from resume")
		}
		return internalError(c, "Failed to process resume")
	}
	return c.JSON(chatCtx)
}

// HandleAnalyze handles POST /api/interview/analyze
func (h *InterviewHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	return c.JSON(h.interview.AnalyzeInterview(c.UserContext(), req.Transcript()))
}

func uploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrEmptyFile):
		return badRequest(c, err.Error())
	}
	logger.Ctx(c.UserContext()).Error().Err(err).Msg("failed to read upload")
	return internalError(c, "Failed to read uploaded file")
}

func draftError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidQuestionIndex):
		return badRequest(c, err.Error())
	}
	logger.Ctx(c.UserContext()).Error().Err(err).Msg("draft store failure")
	return internalError(c, "Failed to update interview")
}
