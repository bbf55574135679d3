package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a resume and print the ATS report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var analyzeChunkSize int

func init() {
	analyzeCmd.Flags().IntVar(&analyzeChunkSize, "chunk-size", 0, "Words per chunk (defaults to CHUNK_SIZE)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	data, err := readResume(args[0])
	if err != nil {
		return err
	}

	pipeline, err := loadPipeline(cmd.Context())
	if err != nil {
		return err
	}

	chunker := pipeline.Chunker
	if analyzeChunkSize > 0 {
		chunker = services.NewTextChunker(analyzeChunkSize)
	}

	doc := pipeline.Extractor.Extract(cmd.Context(), filepath.Base(args[0]), data)
	analysis := pipeline.Analyzer.Analyze(cmd.Context(), chunker.ChunkDocument(doc))
	return printJSON(cmd.OutOrStdout(), analysis)
}
