package db

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

// FileRecord is the persisted form of models.FileMetadata.
type FileRecord struct {
	bun.BaseModel `bun:"table:file_metadata,alias:f"`

	FileID     string `bun:"file_id,pk"`
	FileName   string `bun:"file_name,notnull"`
	SessionID  string `bun:"session_id,nullzero"`
	IsShared   bool   `bun:"is_shared"`
	FileType   string `bun:"file_type"`
	ChunkCount int    `bun:"chunk_count"`
}

func ConnectDB(cfg *config.DBConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// FileStore persists file metadata, one record per ingested file.
type FileStore struct {
	db *bun.DB
}

func NewFileStore(db *bun.DB) *FileStore {
	return &FileStore{db: db}
}

func (s *FileStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*FileRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *FileStore) Insert(ctx context.Context, meta *models.FileMetadata) error {
	rec := &FileRecord{
		FileID:     meta.FileID,
		FileName:   meta.FileName,
		SessionID:  meta.SessionID,
		IsShared:   meta.IsShared,
		FileType:   meta.FileType,
		ChunkCount: meta.ChunkCount,
	}
	_, err := s.db.NewInsert().Model(rec).Exec(ctx)
	return err
}

// Get returns the metadata for a file, or nil when no record exists.
func (s *FileStore) Get(ctx context.Context, fileID string) (*models.FileMetadata, error) {
	rec := new(FileRecord)
	err := s.db.NewSelect().Model(rec).Where("file_id = ?", fileID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.FileMetadata{
		FileID:     rec.FileID,
		FileName:   rec.FileName,
		SessionID:  rec.SessionID,
		IsShared:   rec.IsShared,
		FileType:   rec.FileType,
		ChunkCount: rec.ChunkCount,
	}, nil
}

// Delete removes the record for a file. Deleting a missing file is a
// no-op.
func (s *FileStore) Delete(ctx context.Context, fileID string) error {
	_, err := s.db.NewDelete().Model((*FileRecord)(nil)).Where("file_id = ?", fileID).Exec(ctx)
	return err
}

func (s *FileStore) Close() error {
	return s.db.Close()
}
