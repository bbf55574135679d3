package models

import "strings"

// Page is the extracted text of one source page. PageNumber is 1-based.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// Document is the page-structured text of one upload. The zero value is the empty document.
type Document struct {
	Pages []Page `json:"pages"`
}

func (d Document) IsEmpty() bool {
	return len(d.Pages) == 0
}

// Text joins all pages with a single space in page order.
func (d Document) Text() string {
	texts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, " ")
}

// Chunk is a contiguous word window of a flattened document.
type Chunk struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// FileKind is the upload type inferred from the file extension.
type FileKind string

const (
	FileKindUnsupported FileKind = ""
	FileKindPDF         FileKind = "pdf"
	FileKindImage       FileKind = "image"
)
