package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

const compress = false

// Store persists chunks with their embeddings co-located in one chromem-go
// collection, so a single similarity search covers every ingested file.
type Store struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	encryptionKey string
	filePath      string
}

// NewStore opens (or creates) the collection, persistent or in-memory.
func NewStore(cfg *config.VectorDBConfig) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Store{
		db:            db,
		collection:    collection,
		dbPath:        cfg.Path,
		encryptionKey: cfg.EncryptionKey,
		filePath:      cfg.Path + "/" + cfg.Collection + ".chromem",
	}, nil
}

// AddChunks inserts all chunks as one batch. Every chunk must already
// carry its embedding.
func (s *Store) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Content,
			Metadata:  storeMetadata(c),
			Embedding: c.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns up to limit chunks ranked by similarity to the query
// embedding. chromem scores every stored embedding, so limit doubles as
// the candidate pool.
func (s *Store) Search(ctx context.Context, embedding []float32, limit int) ([]models.ScoredChunk, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	scored := make([]models.ScoredChunk, len(results))
	for i, r := range results {
		scored[i] = models.ScoredChunk{Chunk: chunkFromResult(r), Score: r.Similarity}
	}
	return scored, nil
}

// DeleteFile removes every chunk belonging to the file. A file with no
// chunks is a no-op, not an error.
func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	err := s.collection.Delete(ctx, map[string]string{models.MetaFileID: fileID}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %v", fileID, err)
	}
	return nil
}

// Export writes the collection to an encrypted file.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}

	log.Debug().Str("collection", s.collection.Name).Str("file", s.filePath).Msg("exporting collection")
	if err := s.db.ExportToFile(s.filePath, compress, s.encryptionKey, s.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Import restores the collection from a previous Export.
func (s *Store) Import(ctx context.Context) error {
	name := s.collection.Name
	log.Debug().Str("collection", name).Str("file", s.filePath).Msg("importing collection")
	if err := s.db.ImportFromFile(s.filePath, s.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}

	// The import replaces the collection inside the DB; refresh the handle
	// so reads see the restored data.
	collection := s.db.GetCollection(name, nil)
	if collection == nil {
		return fmt.Errorf("collection %s missing after import", name)
	}
	s.collection = collection
	return nil
}

// storeMetadata folds the chunk's scope fields into the document metadata
// so the store can filter and reconstruct them.
func storeMetadata(c models.Chunk) map[string]string {
	meta := make(map[string]string, len(c.Metadata)+3)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[models.MetaFileID] = c.FileID
	if c.SessionID != "" {
		meta[models.MetaSessionID] = c.SessionID
	}
	meta[models.MetaIsShared] = strconv.FormatBool(c.IsShared)
	return meta
}

func chunkFromResult(r chromem.Result) models.Chunk {
	shared, _ := strconv.ParseBool(r.Metadata[models.MetaIsShared])
	return models.Chunk{
		ID:        r.ID,
		FileID:    r.Metadata[models.MetaFileID],
		SessionID: r.Metadata[models.MetaSessionID],
		IsShared:  shared,
		Content:   r.Content,
		Metadata:  r.Metadata,
		Embedding: r.Embedding,
	}
}
