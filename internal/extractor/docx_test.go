package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishnasurya9/AIchatbot/internal/models"
)

const documentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Overview</w:t></w:r>
    </w:p>
    <w:p><w:r><w:t>First paragraph of the overview.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p/>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>role</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>alice</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>admin</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestParseDocumentXML(t *testing.T) {
	chunks := parseDocumentXML("report.docx", documentXML)
	require.Len(t, chunks, 3)

	assert.Equal(t, "First paragraph of the overview.", chunks[0].Content)
	assert.Equal(t, "Overview", chunks[0].Metadata[models.MetaSection])
	assert.Equal(t, models.ChunkTypeText, chunks[0].Metadata[models.MetaChunkType])

	assert.Equal(t, "Second paragraph.", chunks[1].Content)

	table := chunks[2]
	assert.Equal(t, models.ChunkTypeTable, table.Metadata[models.MetaChunkType])
	assert.Equal(t, "name | role\nalice | admin", table.Content)
	assert.Equal(t, "report.docx", table.Metadata[models.MetaFileName])
}

func TestParseDocumentXMLWithoutHeadings(t *testing.T) {
	src := `<w:document xmlns:w="x"><w:body>
		<w:p><w:r><w:t>plain body</w:t></w:r></w:p>
	</w:body></w:document>`

	chunks := parseDocumentXML("plain.docx", src)
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0].Metadata, models.MetaSection)
}

func TestUnreadableDocxYieldsNothing(t *testing.T) {
	chunks, err := Process("broken.docx", []byte("not a zip archive"), testRAGConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
