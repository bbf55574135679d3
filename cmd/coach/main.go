// Package main provides the coach CLI for running the interview pipeline from a terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/bootstrap"
	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "coach",
	Short:         "AI interview coach pipeline tools",
	Long:          "Run resume extraction, resume analysis, question generation and answer evaluation without the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadPipeline reads the same environment as the API server. Logs go to stderr so stdout stays machine readable.
func loadPipeline(ctx context.Context) (*bootstrap.Pipeline, error) {
	logger.Init(logger.Config{Level: logLevel, Format: "pretty", Output: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return bootstrap.NewPipeline(ctx, cfg)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func readResume(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return data, nil
}
