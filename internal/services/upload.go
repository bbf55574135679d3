package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"alfredoptarigan/interview-coach/internal/models"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type: upload a PDF, PNG or JPG resume")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyFile       = errors.New("uploaded file is empty")
)

// Upload is a validated resume upload held in memory.
type Upload struct {
	Filename string
	Kind     models.FileKind
	Data     []byte
}

// UploadService validates multipart resume uploads before extraction.
type UploadService interface {
	Read(file *multipart.FileHeader) (*Upload, error)
}

type uploadService struct {
	maxFileSize int64
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{maxFileSize: maxFileSize}
}

// Read implements UploadService.
func (s *uploadService) Read(file *multipart.FileHeader) (*Upload, error) {
	if file == nil {
		return nil, ErrEmptyFile
	}

	kind := DetectFileKind(file.Filename)
	if kind == models.FileKindUnsupported {
		return nil, ErrUnsupportedFile
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	reader := io.Reader(src)
	if s.maxFileSize > 0 {
		reader = io.LimitReader(src, s.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}

	return &Upload{Filename: file.Filename, Kind: kind, Data: data}, nil
}
