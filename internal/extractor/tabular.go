package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/krishnasurya9/AIchatbot/internal/config"
	"github.com/krishnasurya9/AIchatbot/internal/models"
)

type tabularExtractor struct{}

const sampleRowCount = 5

// Extract produces exactly two chunks for a readable table: a schema and
// summary-statistics chunk, and a verbatim listing of the first rows.
func (tabularExtractor) Extract(fileName string, content []byte, _ *config.RAGConfig) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".csv":
		rows, err = readCSV(content)
	case ".xlsx":
		rows, err = readXLSX(content)
	}
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("unreadable tabular file, extracting nothing")
		return nil, nil
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	data := rows[1:]

	summaryMeta := baseMetadata(fileName, ext)
	summaryMeta[models.MetaChunkType] = models.ChunkTypeSummary
	chunks := []models.Chunk{{
		Content:  fmt.Sprintf("File Schema:\n%s\n\nSummary Statistics:\n%s", describeSchema(header, data), describeStats(header, data)),
		Metadata: summaryMeta,
	}}

	sampleMeta := baseMetadata(fileName, ext)
	sampleMeta[models.MetaChunkType] = models.ChunkTypeSampleRows
	chunks = append(chunks, models.Chunk{
		Content:  fmt.Sprintf("Sample Data (First %d Rows):\n%s", sampleRowCount, renderRows(header, data, sampleRowCount)),
		Metadata: sampleMeta,
	})
	return chunks, nil
}

func readCSV(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	// First sheet only; multi-sheet workbooks are summarized by their
	// primary sheet.
	return f.GetRows(sheets[0])
}

type columnKind int

const (
	kindInteger columnKind = iota
	kindFloat
	kindText
)

func (k columnKind) String() string {
	switch k {
	case kindInteger:
		return "integer"
	case kindFloat:
		return "float"
	default:
		return "text"
	}
}

// describeSchema lists each column with its inferred type and non-empty
// value count.
func describeSchema(header []string, data [][]string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d columns, %d rows\n", len(header), len(data)))
	for i, name := range header {
		kind, count := inferColumn(i, data)
		sb.WriteString(fmt.Sprintf("%s: %s (%d non-empty values)\n", name, kind, count))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// describeStats reports count, mean, min and max per numeric column.
func describeStats(header []string, data [][]string) string {
	var sb strings.Builder
	for i, name := range header {
		kind, _ := inferColumn(i, data)
		if kind == kindText {
			continue
		}
		var (
			count    int
			sum      float64
			min, max float64
		)
		for _, row := range data {
			if i >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				continue
			}
			if count == 0 || v < min {
				min = v
			}
			if count == 0 || v > max {
				max = v
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: count=%d mean=%.4g min=%.4g max=%.4g\n", name, count, sum/float64(count), min, max))
	}
	if sb.Len() == 0 {
		return "No numeric data for summary."
	}
	return strings.TrimRight(sb.String(), "\n")
}

// inferColumn types a column from its non-empty cells: all integers,
// all numeric, or text.
func inferColumn(col int, data [][]string) (columnKind, int) {
	kind := kindInteger
	count := 0
	for _, row := range data {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		count++
		if kind == kindText {
			continue
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			kind = kindFloat
			continue
		}
		kind = kindText
	}
	if count == 0 {
		kind = kindText
	}
	return kind, count
}

func renderRows(header []string, data [][]string, n int) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, " | "))
	for i, row := range data {
		if i >= n {
			break
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, " | "))
	}
	return sb.String()
}
