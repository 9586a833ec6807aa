package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdocs/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"non-breaking spaces", "foo\u00a0bar", "foo bar"},
		{"whitespace runs", "foo  \t\n bar", "foo bar"},
		{"leading and trailing", "  foo bar \n", "foo bar"},
		{"empty", "      ", ""},
		{"clean text untouched", "foo bar", "foo bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("foo  bar\t\tbaz  qux")
	assert.Equal(t, once, Normalize(once))
}

func TestChunkShortDocument(t *testing.T) {
	c := New(800, 20)
	doc := models.Document{
		Path:  "short.txt",
		Pages: []models.Page{{Number: 1, Text: "  just a  short document  "}},
	}
	chunks := c.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short document", chunks[0].Content)
	assert.Equal(t, "short.txt", chunks[0].Source)
	assert.Equal(t, 1, chunks[0].ChunkID)
}

func TestChunkBound(t *testing.T) {
	c := New(100, 20)
	doc := models.Document{
		Path:  "long.txt",
		Pages: []models.Page{{Number: 1, Text: strings.Repeat("word ", 500)}},
	}
	for _, chunk := range c.Chunk(doc) {
		assert.LessOrEqual(t, len([]rune(chunk.Content)), 100)
	}
}

func TestChunkOverlap(t *testing.T) {
	const maxSize, overlap = 100, 20
	c := New(maxSize, overlap)
	doc := models.Document{
		Path:  "long.txt",
		Pages: []models.Page{{Number: 1, Text: strings.Repeat("abcdefghij", 100)}},
	}
	chunks := c.Chunk(doc)
	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i].Content)
		next := []rune(chunks[i+1].Content)
		if len(cur) < maxSize {
			continue // final partial window
		}
		tail := string(cur[len(cur)-overlap:])
		head := string(next[:overlap])
		assert.Equal(t, tail, head, "chunks %d and %d", i, i+1)
	}
}

func TestChunkCount(t *testing.T) {
	// With window 100 and overlap 20 the window advances 80 runes at a time,
	// so a text of 3*80 runes yields exactly ceil(240/80) = 3 chunks.
	const maxSize, overlap = 100, 20
	step := maxSize - overlap
	length := 3 * step
	c := New(maxSize, overlap)
	doc := models.Document{
		Path:  "exact.txt",
		Pages: []models.Page{{Number: 1, Text: strings.Repeat("x", length)}},
	}
	chunks := c.Chunk(doc)
	assert.Len(t, chunks, (length+step-1)/step)
}

func TestChunkOrderAndIDs(t *testing.T) {
	c := New(50, 10)
	doc := models.Document{
		Path: "multi.txt",
		Pages: []models.Page{
			{Number: 1, Text: strings.Repeat("one ", 30)},
			{Number: 2, Text: strings.Repeat("two ", 30)},
		},
	}
	chunks := c.Chunk(doc)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.ChunkID)
		assert.Equal(t, "multi.txt", chunk.Source)
	}
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 2, chunks[len(chunks)-1].PageNumber)
}

func TestChunkEmptyDocument(t *testing.T) {
	c := New(800, 20)
	doc := models.Document{Path: "empty.txt", Pages: []models.Page{{Number: 1, Text: "  \n\t "}}}
	assert.Empty(t, c.Chunk(doc))
}
