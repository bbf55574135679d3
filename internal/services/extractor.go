package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

// Extractor turns an upload into page-structured text. It never fails: any problem yields an empty Document.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) models.Document
}

// pdfPageReader returns the plain text of every page, in order, including empty ones.
type pdfPageReader func(data []byte) ([]string, error)

type extractor struct {
	ocr       OCR
	prompts   *PromptBuilder
	readPages pdfPageReader
}

// NewExtractor accepts a nil ocr; images then always produce an empty Document.
func NewExtractor(ocr OCR, prompts *PromptBuilder) Extractor {
	return &extractor{
		ocr:       ocr,
		prompts:   prompts,
		readPages: readPDFPages,
	}
}

// DetectFileKind infers the upload type from the file extension only.
func DetectFileKind(filename string) models.FileKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.FileKindPDF
	case ".png", ".jpg", ".jpeg":
		return models.FileKindImage
	default:
		return models.FileKindUnsupported
	}
}

// Extract implements Extractor.
func (e *extractor) Extract(ctx context.Context, filename string, data []byte) models.Document {
	log := logger.Ctx(ctx).With().Str("file", filename).Logger()

	switch DetectFileKind(filename) {
	case models.FileKindPDF:
		doc, err := e.extractPDF(data)
		if err != nil {
			log.Warn().Err(err).Msg("pdf extraction failed")
			return models.Document{}
		}
		log.Debug().Int("pages", len(doc.Pages)).Msg("pdf extracted")
		return doc

	case models.FileKindImage:
		doc, err := e.extractImage(ctx, data)
		if err != nil {
			log.Warn().Err(err).Msg("image extraction failed")
			return models.Document{}
		}
		return doc

	default:
		log.Warn().Msg("unsupported file type")
		return models.Document{}
	}
}

func (e *extractor) extractPDF(data []byte) (models.Document, error) {
	if len(data) == 0 {
		return models.Document{}, fmt.Errorf("empty file")
	}

	texts, err := e.readPages(data)
	if err != nil {
		return models.Document{}, err
	}

	pages := make([]models.Page, 0, len(texts))
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, models.Page{PageNumber: i + 1, Text: text})
	}
	return models.Document{Pages: pages}, nil
}

func readPDFPages(data []byte) (texts []string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	total := r.NumPage()
	texts = make([]string, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// keep the other pages
			continue
		}
		texts[i-1] = text
	}
	return texts, nil
}

func (e *extractor) extractImage(ctx context.Context, data []byte) (models.Document, error) {
	if len(data) == 0 {
		return models.Document{}, fmt.Errorf("empty image")
	}

	mime := mimetype.Detect(data)
	if !mime.Is("image/png") && !mime.Is("image/jpeg") {
		return models.Document{}, fmt.Errorf("unsupported image content: %s", mime.String())
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return models.Document{}, fmt.Errorf("invalid image: %w", err)
	}

	if e.ocr == nil {
		return models.Document{}, fmt.Errorf("no OCR backend configured")
	}

	text, err := e.ocr.Transcribe(ctx, e.prompts.BuildOCRPrompt(), mime.String(), data)
	if err != nil {
		return models.Document{}, fmt.Errorf("ocr failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Document{}, fmt.Errorf("ocr returned no text")
	}
	return models.Document{Pages: []models.Page{{PageNumber: 1, Text: text}}}, nil
}
