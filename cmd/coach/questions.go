package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/models"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <file>",
	Short: "Generate five interview questions for a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestions,
}

var (
	questionsRole       string
	questionsCategory   string
	questionsDifficulty string
)

func init() {
	questionsCmd.Flags().StringVar(&questionsRole, "role", "", "Target job role (required)")
	questionsCmd.Flags().StringVar(&questionsCategory, "category", "Technical", "Technical, Behavioral or HR")
	questionsCmd.Flags().StringVar(&questionsDifficulty, "difficulty", "Medium", "Easy, Medium or Hard")
	_ = questionsCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	data, err := readResume(args[0])
	if err != nil {
		return err
	}

	pipeline, err := loadPipeline(cmd.Context())
	if err != nil {
		return err
	}

	_, text := pipeline.Resumes.ExtractText(cmd.Context(), filepath.Base(args[0]), data)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text could be extracted from %s", args[0])
	}

	questions := pipeline.Interview.GenerateQuestions(
		cmd.Context(),
		text,
		questionsRole,
		models.ParseCategory(questionsCategory),
		models.ParseDifficulty(questionsDifficulty),
	)
	return printJSON(cmd.OutOrStdout(), questions)
}
