package services

import (
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

const DefaultChunkSize = 400

// TextChunker splits documents into fixed-size word windows.
type TextChunker interface {
	Flatten(doc models.Document) string
	Split(text string) []models.Chunk
	ChunkDocument(doc models.Document) []models.Chunk
	Size() int
}

type textChunker struct {
	size int
}

// NewTextChunker falls back to DefaultChunkSize when size is not positive.
func NewTextChunker(size int) TextChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &textChunker{size: size}
}

func (tc *textChunker) Size() int {
	return tc.size
}

// Flatten implements TextChunker.
func (tc *textChunker) Flatten(doc models.Document) string {
	return doc.Text()
}

// Split implements TextChunker. Windows never overlap and every word lands in exactly one chunk.
func (tc *textChunker) Split(text string) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []models.Chunk{}
	}

	chunks := make([]models.Chunk, 0, (len(words)+tc.size-1)/tc.size)
	for start := 0; start < len(words); start += tc.size {
		end := min(start+tc.size, len(words))
		chunks = append(chunks, models.Chunk{
			Index:     len(chunks),
			Text:      strings.Join(words[start:end], " "),
			WordCount: end - start,
		})
	}
	return chunks
}

// ChunkDocument implements TextChunker.
func (tc *textChunker) ChunkDocument(doc models.Document) []models.Chunk {
	return tc.Split(tc.Flatten(doc))
}
