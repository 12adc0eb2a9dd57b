package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/chromemdb"
	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/db"
	"github.com/krishnasurya9/AIchatbot/internal/embedding"
	"github.com/krishnasurya9/AIchatbot/internal/helper"
	"github.com/krishnasurya9/AIchatbot/internal/llmservice"
	"github.com/krishnasurya9/AIchatbot/internal/models"
	"github.com/krishnasurya9/AIchatbot/internal/rag"
	"github.com/krishnasurya9/AIchatbot/internal/status"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to a document to ingest")
	query := flag.String("query", "", "Question to answer from the ingested documents")
	fileTypes := flag.String("types", "", "Comma-separated file type filter for queries, e.g. .pdf,.md")
	sessionID := flag.String("session", "", "Session scope for uploads and queries")
	shared := flag.Bool("shared", false, "Mark the uploaded file as shared across sessions")
	deleteID := flag.String("delete", "", "file_id to delete together with its chunks")
	export := flag.Bool("export", false, "Export the chunk collection to an encrypted file")
	importFlag := flag.Bool("import", false, "Restore the chunk collection from a previous export")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	switch {
	case *filePath != "":
		uploadFile(ctx, cfg, *filePath, *sessionID, *shared)
	case *query != "":
		queryRAG(ctx, cfg, *query, splitTypes(*fileTypes), *sessionID)
	case *deleteID != "":
		deleteFile(ctx, cfg, *deleteID)
	case *export:
		exportCollection(ctx, cfg)
	case *importFlag:
		importCollection(ctx, cfg)
	default:
		log.Fatal().Msg("Please provide one of -file, -query, -delete, -export or -import")
	}
}

func uploadFile(ctx context.Context, cfg *config.Config, path, sessionID string, shared bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading file")
	}
	fileName := filepath.Base(path)

	// Boundary checks: size ceiling and extension allow-list. Rejected
	// files never enter the pipeline.
	if len(content) > cfg.RAG.MaxFileSizeMB<<20 {
		log.Fatal().Str("file", fileName).Int("max_mb", cfg.RAG.MaxFileSizeMB).Msg("File exceeds the upload size ceiling")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(cfg.RAG.AllowedFileTypes, ext) {
		log.Fatal().Str("type", ext).Msg("File type not allowed")
	}

	pipeline := newPipeline(ctx, cfg)
	defer pipeline.Release()

	fileID, err := helper.GenerateUUID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating file id")
	}

	if err := pipeline.Submit(fileID, fileName, content, sessionID, shared); err != nil {
		log.Fatal().Err(err).Msg("Error submitting ingestion")
	}

	for {
		st, ok := pipeline.Status(fileID)
		if ok && st.Status != models.StatusProcessing {
			helper.PrettyPrint(st)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func queryRAG(ctx context.Context, cfg *config.Config, query string, fileTypes []string, sessionID string) {
	chunks, err := chromemdb.NewStore(&cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	retriever := rag.NewRetriever(chunks, embedder, &cfg.RAG)

	var generator rag.Generator
	client, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Warn().Err(err).Msg("Generator unavailable, answering with sources only")
	} else {
		generator = client
	}

	answer, sources, err := rag.NewRAG(retriever, generator).Query(ctx, query, fileTypes, sessionID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Sources: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	helper.PrettyPrint(sources)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer)
}

func deleteFile(ctx context.Context, cfg *config.Config, fileID string) {
	pipeline := newPipeline(ctx, cfg)
	defer pipeline.Release()

	if err := pipeline.DeleteFile(ctx, fileID); err != nil {
		log.Fatal().Err(err).Str("file_id", fileID).Msg("Error deleting file")
	}
	log.Info().Str("file_id", fileID).Msg("Deleted file and chunks")
}

func exportCollection(ctx context.Context, cfg *config.Config) {
	store, err := chromemdb.NewStore(&cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	if err := store.Export(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error exporting collection")
	}
	log.Info().Msg("Exported collection")
}

func importCollection(ctx context.Context, cfg *config.Config) {
	store, err := chromemdb.NewStore(&cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	if err := store.Import(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error importing collection")
	}
	log.Info().Msg("Imported collection")
}

func newPipeline(ctx context.Context, cfg *config.Config) *rag.Pipeline {
	chunks, err := chromemdb.NewStore(&cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	files := db.NewFileStore(db.NewDB(sqldb, cfg.Database.Debug))
	if err := files.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	pipeline, err := rag.NewPipeline(chunks, files, status.NewMemoryStore(), embedder, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating pipeline")
	}
	return pipeline
}

func splitTypes(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		out = append(out, strings.ToLower(t))
	}
	return out
}
