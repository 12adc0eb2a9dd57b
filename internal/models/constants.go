package models

// Upload status lifecycle. A status record is created as processing and
// moves exactly once to completed or failed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Chunk types attached by the extractors.
const (
	ChunkTypeText       = "text"
	ChunkTypeTable      = "table"
	ChunkTypeSummary    = "summary"
	ChunkTypeSampleRows = "sample_rows"
)

// Metadata keys shared between extractors, stores and the retriever.
const (
	MetaFileName     = "file_name"
	MetaFileType     = "file_type"
	MetaPageNumber   = "page_number"
	MetaSection      = "section"
	MetaFunctionName = "function_name"
	MetaChunkType    = "chunk_type"
	MetaFileID       = "file_id"
	MetaSessionID    = "session_id"
	MetaIsShared     = "is_shared"
)

// Fixed answers returned by the query pipeline without calling the
// generator.
const (
	NoContextAnswer     = "I couldn't find any relevant information in your documents to answer that question."
	NotConfiguredAnswer = "RAG model is not configured."
)

var (
	AnswerPromptTemplate = `You are an AI assistant. Answer the user's question based *only* on the
provided context from their documents.

If the context doesn't contain the answer, say "I'm sorry, but I
couldn't find the answer to your question in the provided documents."

Cite the sources you used in your answer using [Source X] notation,
referring to the source number.

Context:
%s

Question:
%s

Answer:
`

	SourceHeaderTemplate = "--- Source %d (%s) ---\n"
	SourceFooter         = "\n--------------------------------------------------\n\n"
)
