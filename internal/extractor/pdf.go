package extractor

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

type pdfExtractor struct{}

// Extract produces one chunk per page with non-empty extracted text.
// Page numbers are 1-based.
func (pdfExtractor) Extract(fileName string, content []byte, _ *config.RAGConfig) ([]models.Chunk, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("unreadable pdf, extracting nothing")
		return nil, nil
	}

	var chunks []models.Chunk
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Str("file", fileName).Int("page", i).Msg("skipping unreadable pdf page")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		meta := baseMetadata(fileName, ".pdf")
		meta[models.MetaPageNumber] = strconv.Itoa(i)
		meta[models.MetaChunkType] = models.ChunkTypeText
		chunks = append(chunks, models.Chunk{Content: text, Metadata: meta})
	}
	return chunks, nil
}
