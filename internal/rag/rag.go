package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishnasurya9/AIchatbot/internal/models"
)

// RAG composes retrieval and generation into the question-answering
// pipeline.
type RAG struct {
	retriever *Retriever
	generator Generator
}

func NewRAG(retriever *Retriever, generator Generator) *RAG {
	return &RAG{retriever: retriever, generator: generator}
}

// Query answers a question grounded in retrieved chunks. With no relevant
// chunks it returns a fixed answer without calling the generator; with no
// generator configured it returns a placeholder alongside the sources,
// which are still useful on their own.
func (r *RAG) Query(ctx context.Context, query string, fileTypes []string, sessionID string) (string, []models.Source, error) {
	sources, chunks := r.retriever.Retrieve(ctx, query, fileTypes, sessionID)
	if len(chunks) == 0 {
		return models.NoContextAnswer, nil, nil
	}
	if r.generator == nil {
		return models.NotConfiguredAnswer, sources, nil
	}

	var contextBlock strings.Builder
	for i, c := range chunks {
		contextBlock.WriteString(fmt.Sprintf(models.SourceHeaderTemplate, i+1, c.Chunk.Metadata[models.MetaFileName]))
		contextBlock.WriteString(c.Chunk.Content)
		contextBlock.WriteString(models.SourceFooter)
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextBlock.String(), query)
	answer, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, sources, nil
}
