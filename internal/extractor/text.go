package extractor

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

type textExtractor struct{}

// Extract splits Markdown on level 1-3 header boundaries and then windows
// each section to the configured chunk size. Plain text skips the header
// split and is windowed directly.
func (textExtractor) Extract(fileName string, content []byte, cfg *config.RAGConfig) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	raw := decodeText(content)

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)

	var chunks []models.Chunk
	appendParts := func(body, section string) {
		parts, err := splitter.SplitText(body)
		if err != nil {
			log.Warn().Err(err).Str("file", fileName).Msg("text split failed, skipping section")
			return
		}
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			meta := baseMetadata(fileName, ext)
			meta[models.MetaChunkType] = models.ChunkTypeText
			if section != "" {
				meta[models.MetaSection] = section
			}
			chunks = append(chunks, models.Chunk{Content: part, Metadata: meta})
		}
	}

	if ext == ".md" {
		for _, sec := range splitMarkdownSections([]byte(raw)) {
			appendParts(sec.body, sec.heading)
		}
		return chunks, nil
	}

	appendParts(raw, "")
	return chunks, nil
}

type mdSection struct {
	heading string
	body    string
}

var mdParser = goldmark.New().Parser()

// splitMarkdownSections slices a document at level 1-3 headings. Text
// before the first heading becomes a section with no heading.
func splitMarkdownSections(source []byte) []mdSection {
	doc := mdParser.Parse(text.NewReader(source))

	var (
		sections []mdSection
		heading  string
		body     strings.Builder
	)
	flush := func() {
		if strings.TrimSpace(body.String()) != "" {
			sections = append(sections, mdSection{heading: heading, body: body.String()})
		}
		body.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= 3 {
			flush()
			heading = strings.TrimSpace(blockText(h, source))
			continue
		}
		body.WriteString(blockText(n, source))
		body.WriteString("\n\n")
	}
	flush()
	return sections
}

// blockText collects the raw source lines of a block node and its block
// descendants. Container blocks carry no lines themselves.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		if node.Type() == ast.TypeBlock {
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
