package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

type CodingHandler struct {
	coding services.CodingService
}

func NewCodingHandler(coding services.CodingService) *CodingHandler {
	return &CodingHandler{coding: coding}
}

// HandleProblem handles POST /api/interview/coding/problem
func (h *CodingHandler) HandleProblem(c *fiber.Ctx) error {
	var req models.CodingProblemRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	problem := h.coding.GenerateProblem(c.UserContext(), req.Language, req.Topic, models.ParseDifficulty(req.Difficulty))
	return c.JSON(problem)
}

// HandleReview handles POST /api/interview/coding/review
func (h *CodingHandler) HandleReview(c *fiber.Ctx) error {
	var req models.CodeReviewRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	return c.JSON(h.coding.ReviewCode(c.UserContext(), req.Code, req.Problem, req.Language))
}
