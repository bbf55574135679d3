package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	codingTemperature = 0.7
	reviewTemperature = 0.3

	ReviewErrorFeedback = "Unable to review code right now."
	emptyCodeFeedback   = "No code was submitted."
)

// CodingService generates practice problems and reviews submitted solutions.
type CodingService interface {
	GenerateProblem(ctx context.Context, language, topic string, difficulty models.Difficulty) models.CodingProblem
	ReviewCode(ctx context.Context, code, problemDescription, language string) models.CodeReview
}

type codingService struct {
	gateway *Gateway
	prompts *PromptBuilder
}

func NewCodingService(gateway *Gateway, prompts *PromptBuilder) CodingService {
	return &codingService{gateway: gateway, prompts: prompts}
}

func fallbackProblem(language string) models.CodingProblem {
	return models.CodingProblem{
		Title: "Two Sum",
		Description: "Given an array of integers nums and an integer target, return the indices of the two numbers " +
			"that add up to target. Each input has exactly one solution and the same element may not be used twice.",
		Examples: []models.CodingExample{
			{Input: "nums = [2,7,11,15], target = 9", Output: "[0,1]", Explanation: "nums[0] + nums[1] == 9"},
			{Input: "nums = [3,2,4], target = 6", Output: "[1,2]"},
		},
		Constraints: []string{"2 <= nums.length <= 10^4", "-10^9 <= nums[i] <= 10^9"},
		StarterCode: fmt.Sprintf("// %s\n// Write a function twoSum(nums, target) that returns the two indices.\n", language),
	}
}

// GenerateProblem implements CodingService.
func (c *codingService) GenerateProblem(ctx context.Context, language, topic string, difficulty models.Difficulty) models.CodingProblem {
	if language == "" {
		language = "Python"
	}
	if topic == "" {
		topic = "Arrays"
	}

	prompt, err := c.prompts.BuildCodingProblemPrompt(language, topic, difficulty)
	if err != nil {
		metrics.Fallback("coding_problem")
		return fallbackProblem(language)
	}

	raw, err := c.gateway.Generate(ctx, GenerationRequest{
		Operation:   "coding_problem",
		System:      c.prompts.System(),
		Prompt:      prompt,
		Temperature: codingTemperature,
		Structured:  true,
	})
	if err != nil {
		logger.Warn().Err(err).Str("language", language).Str("topic", topic).Msg("coding problem generation failed")
		metrics.Fallback("coding_problem")
		return fallbackProblem(language)
	}

	var problem models.CodingProblem
	if !Decode(raw, codingProblemSchema, &problem) {
		metrics.Fallback("coding_problem")
		return fallbackProblem(language)
	}
	if problem.Examples == nil {
		problem.Examples = []models.CodingExample{}
	}
	problem.Constraints = nonNilStrings(problem.Constraints)
	return problem
}

// ReviewCode implements CodingService.
func (c *codingService) ReviewCode(ctx context.Context, code, problemDescription, language string) models.CodeReview {
	if strings.TrimSpace(code) == "" {
		return models.CodeReview{
			IsCorrect:        false,
			Feedback:         emptyCodeFeedback,
			Bugs:             []string{},
			OptimizationTips: []string{},
		}
	}

	fallback := models.CodeReview{
		Feedback:         ReviewErrorFeedback,
		Bugs:             []string{},
		OptimizationTips: []string{},
	}

	prompt, err := c.prompts.BuildCodeReviewPrompt(code, problemDescription, language)
	if err != nil {
		metrics.Fallback("code_review")
		return fallback
	}

	raw, err := c.gateway.Generate(ctx, GenerationRequest{
		Operation:   "code_review",
		System:      c.prompts.System(),
		Prompt:      prompt,
		Temperature: reviewTemperature,
		Structured:  true,
	})
	if err != nil {
		logger.Warn().Err(err).Str("language", language).Msg("code review failed")
		metrics.Fallback("code_review")
		return fallback
	}

	var review models.CodeReview
	if !Decode(raw, codeReviewSchema, &review) {
		metrics.Fallback("code_review")
		return fallback
	}
	review.Bugs = nonNilStrings(review.Bugs)
	review.OptimizationTips = nonNilStrings(review.OptimizationTips)
	return review
}
