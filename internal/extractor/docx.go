package extractor

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

type docxExtractor struct{}

// Extract produces one chunk per non-empty paragraph, tagging each with
// the most recent heading as its section. Tables are serialized row by
// row into one chunk per table.
func (docxExtractor) Extract(fileName string, content []byte, _ *config.RAGConfig) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("unreadable docx, extracting nothing")
		return nil, nil
	}
	defer r.Close()

	return parseDocumentXML(fileName, r.Editable().GetContent()), nil
}

// parseDocumentXML walks the WordprocessingML body. Paragraph styles
// starting with "Heading" update the running section; w:tbl subtrees are
// collected into pipe-delimited rows.
func parseDocumentXML(fileName, content string) []models.Chunk {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		chunks     []models.Chunk
		heading    string
		paraStyle  string
		tableDepth int
		inText     bool
		para       strings.Builder
		cell       strings.Builder
		row        []string
		table      []string
	)

	textMeta := func() map[string]string {
		meta := baseMetadata(fileName, ".docx")
		meta[models.MetaChunkType] = models.ChunkTypeText
		if heading != "" {
			meta[models.MetaSection] = heading
		}
		return meta
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					table = nil
				}
			case "tr":
				if tableDepth > 0 {
					row = nil
				}
			case "tc":
				if tableDepth > 0 {
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					para.Reset()
					paraStyle = ""
				}
			case "pStyle":
				if tableDepth == 0 {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							paraStyle = a.Value
						}
					}
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				if tableDepth > 0 {
					cell.Write(t)
				} else {
					para.Write(t)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tableDepth > 0 {
					break
				}
				text := strings.TrimSpace(para.String())
				if strings.HasPrefix(paraStyle, "Heading") {
					if text != "" {
						heading = text
					}
				} else if text != "" {
					chunks = append(chunks, models.Chunk{Content: text, Metadata: textMeta()})
				}
			case "tc":
				if tableDepth > 0 {
					row = append(row, strings.TrimSpace(cell.String()))
				}
			case "tr":
				if tableDepth > 0 && len(row) > 0 {
					table = append(table, strings.Join(row, " | "))
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 && len(table) > 0 {
					meta := baseMetadata(fileName, ".docx")
					meta[models.MetaChunkType] = models.ChunkTypeTable
					if heading != "" {
						meta[models.MetaSection] = heading
					}
					chunks = append(chunks, models.Chunk{Content: strings.Join(table, "\n"), Metadata: meta})
				}
			}
		}
	}
	return chunks
}
