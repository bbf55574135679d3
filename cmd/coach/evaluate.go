package main

import (
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one answer to an interview question",
	Args:  cobra.NoArgs,
	RunE:  runEvaluate,
}

var (
	evaluateQuestion string
	evaluateAnswer   string
	evaluateRole     string
)

func init() {
	evaluateCmd.Flags().StringVar(&evaluateQuestion, "question", "", "Interview question (required)")
	evaluateCmd.Flags().StringVar(&evaluateAnswer, "answer", "", "Candidate answer")
	evaluateCmd.Flags().StringVar(&evaluateRole, "role", "", "Target job role")
	_ = evaluateCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	pipeline, err := loadPipeline(cmd.Context())
	if err != nil {
		return err
	}

	eval := pipeline.Interview.EvaluateAnswer(cmd.Context(), evaluateQuestion, evaluateAnswer, evaluateRole)
	return printJSON(cmd.OutOrStdout(), eval)
}
