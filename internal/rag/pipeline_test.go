package rag

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishnasurya9/AIchatbot/internal/chromemdb"
	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
	"github.com/krishnasurya9/AIchatbot/internal/status"
)

// hashEmbedder is a deterministic stand-in for a model-backed embedder.
type hashEmbedder struct{}

func (hashEmbedder) embed(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32((seed+uint32(i)*7919)%1000)/1000 + 0.001
	}
	return vec
}

func (e hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

type memFileStore struct {
	mu    sync.Mutex
	files map[string]*models.FileMetadata
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string]*models.FileMetadata)}
}

func (s *memFileStore) Insert(_ context.Context, meta *models.FileMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[meta.FileID] = meta
	return nil
}

func (s *memFileStore) Get(_ context.Context, fileID string) (*models.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[fileID], nil
}

func (s *memFileStore) Delete(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, fileID)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.RAG.ChunkSize = 80
	cfg.RAG.ChunkOverlap = 10
	return cfg
}

func newTestChunkStore(t *testing.T) *chromemdb.Store {
	t.Helper()
	store, err := chromemdb.NewStore(&config.VectorDBConfig{InMemory: true, Collection: "test"})
	require.NoError(t, err)
	return store
}

func newTestPipeline(t *testing.T, chunks ChunkStore, files FileStore) *Pipeline {
	t.Helper()
	p, err := NewPipeline(chunks, files, status.NewMemoryStore(), hashEmbedder{}, testConfig())
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

const markdownDoc = `## Setup

Install the binary and point it at the database before the first run.
Each environment keeps its own configuration file on disk.

## Usage

Run the ingest command with a file path to index the document contents.
Results stay available until the file is deleted again.
`

func TestIngestMarkdownRoundTrip(t *testing.T) {
	ctx := context.Background()
	chunks := newTestChunkStore(t)
	files := newMemFileStore()
	p := newTestPipeline(t, chunks, files)

	p.Ingest(ctx, "file-1", "guide.md", []byte(markdownDoc), "sess-1", false)

	st, ok := p.Status("file-1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, st.Status)
	assert.Greater(t, st.ChunksCreated, 1)

	meta, err := files.Get(ctx, "file-1")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, ".md", meta.FileType)
	assert.Equal(t, st.ChunksCreated, meta.ChunkCount)

	query, err := hashEmbedder{}.EmbedQuery(ctx, "how do I run ingest")
	require.NoError(t, err)
	found, err := chunks.Search(ctx, query, 20)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	for _, c := range found {
		assert.Equal(t, "file-1", c.Chunk.FileID)
		assert.Equal(t, "sess-1", c.Chunk.SessionID)
		assert.True(t, strings.HasPrefix(c.Chunk.ID, "file-1_chunk_"))
	}
}

func TestIngestUnreadablePDFFails(t *testing.T) {
	ctx := context.Background()
	files := newMemFileStore()
	p := newTestPipeline(t, newTestChunkStore(t), files)

	p.Ingest(ctx, "file-2", "broken.pdf", []byte("not a pdf"), "", false)

	st, ok := p.Status("file-2")
	require.True(t, ok)
	assert.Equal(t, models.StatusFailed, st.Status)
	assert.Equal(t, "No content extracted", st.Error)

	// Nothing may be persisted for a failed ingestion.
	meta, err := files.Get(ctx, "file-2")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestIngestWithoutEmbedderFails(t *testing.T) {
	p, err := NewPipeline(newTestChunkStore(t), newMemFileStore(), status.NewMemoryStore(), nil, testConfig())
	require.NoError(t, err)
	defer p.Release()

	p.Ingest(context.Background(), "file-3", "notes.txt", []byte("some text"), "", false)

	st, ok := p.Status("file-3")
	require.True(t, ok)
	assert.Equal(t, models.StatusFailed, st.Status)
	assert.Equal(t, ErrEmbedderUnavailable.Error(), st.Error)
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	chunks := newTestChunkStore(t)
	files := newMemFileStore()
	p := newTestPipeline(t, chunks, files)

	p.Ingest(ctx, "file-4", "guide.md", []byte(markdownDoc), "", true)

	require.NoError(t, p.DeleteFile(ctx, "file-4"))
	require.NoError(t, p.DeleteFile(ctx, "file-4"))

	meta, err := files.Get(ctx, "file-4")
	require.NoError(t, err)
	assert.Nil(t, meta)

	_, ok := p.Status("file-4")
	assert.False(t, ok)

	query, err := hashEmbedder{}.EmbedQuery(ctx, "anything")
	require.NoError(t, err)
	found, err := chunks.Search(ctx, query, 20)
	require.NoError(t, err)
	assert.Empty(t, found)
}

// panicEmbedder stands in for document parsers that panic on malformed
// input instead of returning an error.
type panicEmbedder struct{ hashEmbedder }

func (panicEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	panic("embedder blew up")
}

func TestIngestPanicReachesTerminalStatus(t *testing.T) {
	p, err := NewPipeline(newTestChunkStore(t), newMemFileStore(), status.NewMemoryStore(), panicEmbedder{}, testConfig())
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit("file-6", "guide.md", []byte(markdownDoc), "", false))

	require.Eventually(t, func() bool {
		st, ok := p.Status("file-6")
		return ok && st.Status == models.StatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	st, _ := p.Status("file-6")
	assert.Contains(t, st.Error, "embedder blew up")
}

func TestSubmitReportsCompletion(t *testing.T) {
	p := newTestPipeline(t, newTestChunkStore(t), newMemFileStore())

	require.NoError(t, p.Submit("file-5", "guide.md", []byte(markdownDoc), "", false))

	st, ok := p.Status("file-5")
	require.True(t, ok)
	assert.NotEmpty(t, st.Status)

	require.Eventually(t, func() bool {
		st, ok := p.Status("file-5")
		return ok && st.Status == models.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)
}
