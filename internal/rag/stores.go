package rag

import (
	"context"
	"errors"

	"github.com/krishnasurya9/AIchatbot/internal/models"
)

// ErrNoContent terminates an ingestion whose extractor produced zero
// usable chunks. Its text is surfaced verbatim in the upload status.
var ErrNoContent = errors.New("No content extracted")

// ErrEmbedderUnavailable terminates an ingestion when no embedding model
// is configured.
var ErrEmbedderUnavailable = errors.New("embedding model is not configured")

// ChunkStore persists chunks with co-located embeddings and serves
// similarity search over them.
type ChunkStore interface {
	AddChunks(ctx context.Context, chunks []models.Chunk) error
	Search(ctx context.Context, embedding []float32, limit int) ([]models.ScoredChunk, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// FileStore persists one metadata record per ingested file.
type FileStore interface {
	Insert(ctx context.Context, meta *models.FileMetadata) error
	Get(ctx context.Context, fileID string) (*models.FileMetadata, error)
	Delete(ctx context.Context, fileID string) error
}

// Generator maps a prompt to text. Stateless per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
