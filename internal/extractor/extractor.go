package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

// ErrUnsupportedType is returned when a file's extension is not in the
// configured allow-list. It is surfaced at the boundary and never enters
// the ingestion pipeline.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor turns raw file bytes into an ordered sequence of chunks.
// Implementations degrade to an empty result on unreadable input instead
// of failing the whole ingestion.
type Extractor interface {
	Extract(fileName string, content []byte, cfg *config.RAGConfig) ([]models.Chunk, error)
}

// registry maps a file extension to its extractor. Supporting a new type
// is one entry here plus the allow-list.
var registry = map[string]Extractor{
	".pdf":  pdfExtractor{},
	".docx": docxExtractor{},
	".txt":  textExtractor{},
	".md":   textExtractor{},
	".csv":  tabularExtractor{},
	".xlsx": tabularExtractor{},
	".py":   codeExtractor{},
	".js":   codeExtractor{},
	".java": codeExtractor{},
	".cpp":  codeExtractor{},
	".go":   codeExtractor{},
}

// Process routes a file to the extractor registered for its extension and
// drops any chunk whose trimmed content is empty. It performs no I/O.
func Process(fileName string, content []byte, cfg *config.RAGConfig) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(cfg.AllowedFileTypes, ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	ex, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	chunks, err := ex.Extract(fileName, content, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", fileName, err)
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) != "" {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// decodeText decodes file bytes as UTF-8, falling back to Latin-1 for
// legacy encodings.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}

func baseMetadata(fileName, fileType string) map[string]string {
	return map[string]string{
		models.MetaFileName: fileName,
		models.MetaFileType: fileType,
	}
}
