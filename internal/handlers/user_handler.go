package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

const defaultHistoryLimit = 20

type UserHandler struct {
	sessions services.SessionService
}

func NewUserHandler(sessions services.SessionService) *UserHandler {
	return &UserHandler{sessions: sessions}
}

// HandleStats handles GET /api/user/stats/:id
func (h *UserHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.sessions.Stats(c.UserContext(), c.Params("id"))
	if err != nil {
		logger.Ctx(c.UserContext()).Error().Err(err).Msg("failed to load user stats")
		return internalError(c, "Failed to load stats")
	}
	return c.JSON(stats)
}

// HandleHistory handles GET /api/user/history/:id
func (h *UserHandler) HandleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		return badRequest(c, "limit must be positive")
	}

	history, err := h.sessions.History(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		logger.Ctx(c.UserContext()).Error().Err(err).Msg("failed to load user history")
		return internalError(c, "Failed to load history")
	}
	return c.JSON(history)
}

// HandleAnalytics handles GET /api/user/analytics/:id
func (h *UserHandler) HandleAnalytics(c *fiber.Ctx) error {
	analytics, err := h.sessions.Analytics(c.UserContext(), c.Params("id"))
	if err != nil {
		logger.Ctx(c.UserContext()).Error().Err(err).Msg("failed to load user analytics")
		return internalError(c, "Failed to load analytics")
	}
	return c.JSON(analytics)
}

// HandleSession handles GET /api/user/session/:id
func (h *UserHandler) HandleSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session ID format")
	}

	session, err := h.sessions.Details(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return notFound(c, "Session not found")
		}
		return internalError(c, "Failed to load session")
	}
	return c.JSON(session)
}

// HandleDeleteSession handles DELETE /api/user/session/:id?user_id=
func (h *UserHandler) HandleDeleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session ID format")
	}

	err = h.sessions.Delete(c.UserContext(), sessionID, c.Query("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingUserID):
			return badRequest(c, err.Error())
		case errors.Is(err, repositories.ErrSessionNotFound):
			return notFound(c, "Session not found")
		}
		return internalError(c, "Failed to delete session")
	}
	return c.JSON(fiber.Map{"message": "Session deleted"})
}
