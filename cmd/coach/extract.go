package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text of each page of a PDF or image resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	if services.DetectFileKind(path) == models.FileKindUnsupported {
		return services.ErrUnsupportedFile
	}

	data, err := readResume(path)
	if err != nil {
		return err
	}

	pipeline, err := loadPipeline(cmd.Context())
	if err != nil {
		return err
	}

	doc := pipeline.Extractor.Extract(cmd.Context(), filepath.Base(path), data)
	if doc.IsEmpty() {
		return fmt.Errorf("no text could be extracted from %s", path)
	}

	out := cmd.OutOrStdout()
	for _, page := range doc.Pages {
		fmt.Fprintf(out, "--- page %d ---\n%s\n", page.PageNumber, page.Text)
	}
	return nil
}
