package rag

import (
	"context"
	"fmt"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/embedding"
	"github.com/krishnasurya9/AIchatbot/internal/extractor"
	"github.com/krishnasurya9/AIchatbot/internal/models"
	"github.com/krishnasurya9/AIchatbot/internal/status"
)

// Pipeline orchestrates ingestion: extract, embed, persist. The outcome of
// a run is reported through the status store, never through a return
// value, so callers can fire and forget.
type Pipeline struct {
	chunks   ChunkStore
	files    FileStore
	statuses status.Store
	embedder embedding.Embedder
	cfg      *config.Config
	pool     *ants.Pool
}

func NewPipeline(chunks ChunkStore, files FileStore, statuses status.Store, embedder embedding.Embedder, cfg *config.Config) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		chunks:   chunks,
		files:    files,
		statuses: statuses,
		embedder: embedder,
		cfg:      cfg,
		pool:     pool,
	}, nil
}

// Submit records a processing status and queues the ingestion on the
// worker pool, returning immediately. Extraction of large binary
// documents therefore never blocks the submitting caller.
func (p *Pipeline) Submit(fileID, fileName string, content []byte, sessionID string, isShared bool) error {
	p.statuses.Set(models.UploadStatus{
		FileID:   fileID,
		FileName: fileName,
		Status:   models.StatusProcessing,
	})
	return p.pool.Submit(func() {
		p.Ingest(context.Background(), fileID, fileName, content, sessionID, isShared)
	})
}

// Ingest runs the full pipeline for one file. Failures never propagate:
// they are logged with file_id context and recorded as a terminal failed
// status. There are no retries; a failed file must be resubmitted.
func (p *Pipeline) Ingest(ctx context.Context, fileID, fileName string, content []byte, sessionID string, isShared bool) {
	// Some document parsers panic on malformed input. The status record
	// must still reach a terminal state, or pollers wait forever.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("file_id", fileID).Str("file", fileName).Msg("ingestion panicked")
			p.statuses.Set(models.UploadStatus{
				FileID:   fileID,
				FileName: fileName,
				Status:   models.StatusFailed,
				Error:    fmt.Sprintf("panic: %v", r),
			})
		}
	}()

	log.Info().Str("file_id", fileID).Str("file", fileName).Msg("starting ingestion")
	p.statuses.Set(models.UploadStatus{FileID: fileID, FileName: fileName, Status: models.StatusProcessing})

	created, err := p.ingest(ctx, fileID, fileName, content, sessionID, isShared)
	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Str("file", fileName).Msg("ingestion failed")
		p.statuses.Set(models.UploadStatus{
			FileID:   fileID,
			FileName: fileName,
			Status:   models.StatusFailed,
			Error:    err.Error(),
		})
		return
	}

	p.statuses.Set(models.UploadStatus{
		FileID:        fileID,
		FileName:      fileName,
		Status:        models.StatusCompleted,
		ChunksCreated: created,
	})
	log.Info().Str("file_id", fileID).Str("file", fileName).Int("chunks", created).Msg("ingestion completed")
}

func (p *Pipeline) ingest(ctx context.Context, fileID, fileName string, content []byte, sessionID string, isShared bool) (int, error) {
	chunks, err := extractor.Process(fileName, content, &p.cfg.RAG)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, ErrNoContent
	}

	if p.embedder == nil {
		return 0, ErrEmbedderUnavailable
	}

	for i := range chunks {
		chunks[i].ID = fmt.Sprintf("%s_chunk_%d", fileID, i)
		chunks[i].FileID = fileID
		chunks[i].SessionID = sessionID
		chunks[i].IsShared = isShared
	}

	embedded, err := embedding.EmbedChunks(ctx, p.embedder, chunks)
	if err != nil {
		return 0, err
	}

	// Metadata first, then the chunk batch. Not transactional across the
	// two stores; a crash in between leaves an orphaned metadata record.
	meta := &models.FileMetadata{
		FileID:     fileID,
		FileName:   fileName,
		SessionID:  sessionID,
		IsShared:   isShared,
		FileType:   embedded[0].Metadata[models.MetaFileType],
		ChunkCount: len(embedded),
	}
	if err := p.files.Insert(ctx, meta); err != nil {
		return 0, err
	}
	if err := p.chunks.AddChunks(ctx, embedded); err != nil {
		return 0, err
	}
	return len(embedded), nil
}

// DeleteFile removes the file's metadata record and all of its chunks,
// and drops its status entry. Idempotent: deleting an unknown file is a
// no-op.
func (p *Pipeline) DeleteFile(ctx context.Context, fileID string) error {
	log.Info().Str("file_id", fileID).Msg("deleting file and chunks")
	if err := p.files.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete metadata for %s: %w", fileID, err)
	}
	if err := p.chunks.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", fileID, err)
	}
	p.statuses.Delete(fileID)
	return nil
}

// Status reports the upload status recorded for a file.
func (p *Pipeline) Status(fileID string) (models.UploadStatus, bool) {
	return p.statuses.Get(fileID)
}

// Release stops the worker pool. The pipeline must not be used afterward.
func (p *Pipeline) Release() {
	p.pool.Release()
}
