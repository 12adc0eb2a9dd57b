package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishnasurya9/AIchatbot/internal/models"
)

const pySource = `def first_thing(a, b):
    total = a + b
    print(total)
    return total


def second_thing(items):
    for item in items:
        print(item)
    return len(items)
`

func TestPythonSplitsAtFunctionBoundaries(t *testing.T) {
	cfg := testRAGConfig()
	cfg.CodeChunkSize = 100
	cfg.CodeChunkOverlap = 0

	chunks, err := Process("script.py", []byte(pySource), cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, c := range chunks {
		assert.Equal(t, ".py", c.Metadata[models.MetaFileType])
	}
	assert.Equal(t, "first_thing", chunks[0].Metadata[models.MetaFunctionName])
}

func TestLeadingFunctionName(t *testing.T) {
	cases := map[string]string{
		"def handler(req):\n    pass":               "handler",
		"async def fetch(url):\n    pass":           "fetch",
		"func (s *Store) Search(q string) error {":  "Search",
		"func Process(name string) error {":         "Process",
		"export async function loadAll() {":         "loadAll",
		"public static int parseCount(String s) {":  "parseCount",
		"x := 1\ny := 2":                            "",
	}
	for chunk, want := range cases {
		assert.Equal(t, want, leadingFunctionName(chunk), chunk)
	}
}

func TestLongSourceSplitsIntoMultipleChunks(t *testing.T) {
	cfg := testRAGConfig()

	long := strings.Repeat("void work() {\n    int x = 0;\n}\n\n", 20)
	chunks, err := Process("prog.cpp", []byte(long), cfg)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
}
