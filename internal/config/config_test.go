package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 1500, cfg.RAG.CodeChunkSize)
	assert.Equal(t, 100, cfg.RAG.SearchCandidates)
	assert.Equal(t, 20, cfg.RAG.SearchLimit)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, 25, cfg.RAG.MaxFileSizeMB)
	assert.Contains(t, cfg.RAG.AllowedFileTypes, ".pdf")
	assert.Contains(t, cfg.RAG.AllowedFileTypes, ".go")
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.RAG.ChunkSize = 300
	cfg.RAG.AllowedFileTypes = []string{".txt"}
	cfg.ApplyDefaults()

	assert.Equal(t, 300, cfg.RAG.ChunkSize)
	assert.Equal(t, []string{".txt"}, cfg.RAG.AllowedFileTypes)
	assert.Equal(t, 5, cfg.RAG.TopK)
}

func TestLoadConfig(t *testing.T) {
	yml := `
embed_llm:
  provider: ollama
  base_url: http://localhost:11434
  model: nomic-embed-text
vector_db:
  collection: documents
  in_memory: true
rag:
  chunk_size: 500
  top_k: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
	assert.Equal(t, "documents", cfg.VectorDB.Collection)
	assert.True(t, cfg.VectorDB.InMemory)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 3, cfg.RAG.TopK)
	// Untouched fields fall back to defaults.
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
