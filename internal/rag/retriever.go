package rag

import (
	"context"
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/embedding"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

const snippetLength = 150

// Reranker reorders vector-search survivors and truncates them to topK.
// The default sorts by similarity score; a model-backed implementation can
// replace it without changing the retrieval contract.
type Reranker interface {
	Rerank(query string, candidates []models.ScoredChunk, topK int) []models.ScoredChunk
}

// scoreReranker sorts by score descending. The sort is stable so ties
// keep their recall order.
type scoreReranker struct{}

func (scoreReranker) Rerank(_ string, candidates []models.ScoredChunk, topK int) []models.ScoredChunk {
	ranked := make([]models.ScoredChunk, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// Retriever runs scoped similarity search over the chunk store and
// formats the survivors for citation display.
type Retriever struct {
	chunks   ChunkStore
	embedder embedding.Embedder
	reranker Reranker
	cfg      *config.RAGConfig
}

func NewRetriever(chunks ChunkStore, embedder embedding.Embedder, cfg *config.RAGConfig) *Retriever {
	return &Retriever{chunks: chunks, embedder: embedder, reranker: scoreReranker{}, cfg: cfg}
}

// WithReranker replaces the default score-sort re-ranking stage.
func (r *Retriever) WithReranker(rr Reranker) *Retriever {
	r.reranker = rr
	return r
}

// Retrieve embeds the query, pulls a wide candidate set, applies the
// visibility and file-type filters, re-ranks to top-K and formats
// sources. Search failures degrade to an empty result pair: retrieval
// reports "no context found", never an error.
//
// A chunk is visible to a session when it belongs to that session or is
// shared. Queries without a session skip the visibility filter entirely.
func (r *Retriever) Retrieve(ctx context.Context, query string, fileTypes []string, sessionID string) ([]models.Source, []models.ScoredChunk) {
	log.Info().Str("query", query).Msg("retrieving context")

	if r.embedder == nil {
		log.Error().Msg("embedding model is not configured, returning no context")
		return nil, nil
	}
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("query embedding failed, returning no context")
		return nil, nil
	}

	candidates, err := r.chunks.Search(ctx, queryEmbedding, r.cfg.SearchLimit)
	if err != nil {
		log.Error().Err(err).Msg("vector search failed, returning no context")
		return nil, nil
	}

	visible := make([]models.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		if sessionID != "" && c.Chunk.SessionID != sessionID && !c.Chunk.IsShared {
			continue
		}
		if len(fileTypes) > 0 && !slices.Contains(fileTypes, c.Chunk.Metadata[models.MetaFileType]) {
			continue
		}
		visible = append(visible, c)
	}

	top := r.reranker.Rerank(query, visible, r.cfg.TopK)

	sources := make([]models.Source, 0, len(top))
	for _, c := range top {
		sources = append(sources, formatSource(c))
	}
	return sources, top
}

// formatSource builds a citation descriptor. Optional metadata keys stay
// empty (and are omitted from JSON) when the chunk does not carry them.
func formatSource(c models.ScoredChunk) models.Source {
	meta := c.Chunk.Metadata
	file := meta[models.MetaFileName]
	if file == "" {
		file = "Unknown"
	}
	return models.Source{
		File:           file,
		ContentSnippet: snippet(c.Chunk.Content, snippetLength),
		RelevanceScore: c.Score,
		Page:           meta[models.MetaPageNumber],
		Function:       meta[models.MetaFunctionName],
		Section:        meta[models.MetaSection],
	}
}

func snippet(content string, n int) string {
	if len(content) <= n {
		return content
	}
	cut := content[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
