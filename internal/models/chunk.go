package models

// Chunk is the atomic retrievable unit: extracted text, provenance
// metadata, and the embedding it is indexed under. Chunks are immutable
// once written; re-ingesting a file means delete-then-reinsert.
type Chunk struct {
	ID        string
	FileID    string
	SessionID string
	IsShared  bool
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// ScoredChunk pairs a chunk with the similarity score reported by the
// vector search.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// FileMetadata describes one ingested file. ChunkCount matches the number
// of persisted chunks for the file at steady state.
type FileMetadata struct {
	FileID     string
	FileName   string
	SessionID  string
	IsShared   bool
	FileType   string
	ChunkCount int
}

// UploadStatus tracks an in-flight or finished ingestion. It lives in a
// process-local store and does not survive restarts.
type UploadStatus struct {
	FileID        string `json:"file_id"`
	FileName      string `json:"file_name"`
	Status        string `json:"status"`
	ChunksCreated int    `json:"chunks_created"`
	Error         string `json:"error,omitempty"`
}

// Source is a citation-ready descriptor for a retrieved chunk. Optional
// fields are omitted when the chunk's metadata does not carry them.
type Source struct {
	File           string  `json:"file"`
	ContentSnippet string  `json:"content_snippet"`
	RelevanceScore float32 `json:"relevance_score"`
	Page           string  `json:"page,omitempty"`
	Function       string  `json:"function,omitempty"`
	Section        string  `json:"section,omitempty"`
}
