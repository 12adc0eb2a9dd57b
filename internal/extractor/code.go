package extractor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

type codeExtractor struct{}

// codeSeparators prefer structural boundaries per language. Unrecognized
// extensions fall back to the splitter's generic separators.
var codeSeparators = map[string][]string{
	".py":   {"\nclass ", "\ndef ", "\n\tdef ", "\n\n", "\n", " ", ""},
	".js":   {"\nfunction ", "\nconst ", "\nlet ", "\nvar ", "\nclass ", "\nexport ", "\n\n", "\n", " ", ""},
	".java": {"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\nstatic ", "\n\n", "\n", " ", ""},
	".cpp":  {"\nclass ", "\nstruct ", "\nvoid ", "\nint ", "\nnamespace ", "\n\n", "\n", " ", ""},
	".go":   {"\nfunc ", "\ntype ", "\nvar ", "\nconst ", "\n\n", "\n", " ", ""},
}

var functionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`),
	regexp.MustCompile(`(?m)^func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*\(`),
	regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][\w$]*)\s*\(`),
	regexp.MustCompile(`(?m)^\s*(?:public\s+|protected\s+|private\s+|static\s+|final\s+)*[\w<>\[\]*&:]+\s+([A-Za-z_]\w*)\s*\([^;{}]*\)\s*\{`),
}

// Extract splits source code at language-aware boundaries and tags each
// chunk with the first function declared in it, when one is found.
func (codeExtractor) Extract(fileName string, content []byte, cfg *config.RAGConfig) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	raw := decodeText(content)

	opts := []textsplitter.Option{
		textsplitter.WithChunkSize(cfg.CodeChunkSize),
		textsplitter.WithChunkOverlap(cfg.CodeChunkOverlap),
	}
	if seps, ok := codeSeparators[ext]; ok {
		opts = append(opts, textsplitter.WithSeparators(seps))
	}
	splitter := textsplitter.NewRecursiveCharacter(opts...)

	parts, err := splitter.SplitText(raw)
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("code split failed, extracting nothing")
		return nil, nil
	}

	var chunks []models.Chunk
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		meta := baseMetadata(fileName, ext)
		meta[models.MetaChunkType] = models.ChunkTypeText
		if name := leadingFunctionName(part); name != "" {
			meta[models.MetaFunctionName] = name
		}
		chunks = append(chunks, models.Chunk{Content: part, Metadata: meta})
	}
	return chunks, nil
}

// leadingFunctionName returns the first function or method name declared
// in the chunk, or "" when no declaration is recognized.
func leadingFunctionName(chunk string) string {
	for _, re := range functionPatterns {
		if m := re.FindStringSubmatch(chunk); m != nil {
			return m[1]
		}
	}
	return ""
}
