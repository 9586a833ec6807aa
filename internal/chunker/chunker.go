package chunker

import (
	"regexp"
	"strings"

	"smartdocs/internal/models"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize replaces non-breaking spaces with regular spaces, collapses any
// whitespace run to a single space and trims the ends. Normalizing already
// normalized text is a no-op.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunker splits documents into overlapping windows of normalized text.
type Chunker struct {
	maxSize int
	overlap int
}

func New(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}
}

// Chunk turns a document into an ordered sequence of chunks. Page texts are
// normalized, joined and windowed across the whole document, so the chunk
// count depends only on the total normalized length. Each chunk keeps the
// number of the page its window starts on.
func (c *Chunker) Chunk(doc models.Document) []models.Chunk {
	var sb strings.Builder
	// rune offset of the start of each page within the joined text
	pageStarts := make([]int, 0, len(doc.Pages))
	pageNums := make([]int, 0, len(doc.Pages))
	offset := 0
	for _, page := range doc.Pages {
		text := Normalize(page.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
			offset++
		}
		pageStarts = append(pageStarts, offset)
		pageNums = append(pageNums, page.Number)
		sb.WriteString(text)
		offset += len([]rune(text))
	}

	var chunks []models.Chunk
	for i, window := range splitContent(sb.String(), c.maxSize, c.overlap) {
		chunks = append(chunks, models.Chunk{
			Content:    window.text,
			Source:     doc.Path,
			PageNumber: pageAt(pageStarts, pageNums, window.start),
			ChunkID:    i + 1,
		})
	}
	return chunks
}

type window struct {
	start int
	text  string
}

// splitContent slices content into windows of at most maxChars runes with
// overlapChars runes shared between consecutive windows. Content shorter than
// maxChars comes back as a single window.
func splitContent(content string, maxChars, overlapChars int) []window {
	if content == "" {
		return nil
	}
	runes := []rune(content)
	if len(runes) <= maxChars {
		return []window{{start: 0, text: content}}
	}

	var windows []window
	step := maxChars - overlapChars
	for start := 0; start < len(runes); start += step {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, window{start: start, text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
	}
	return windows
}

func pageAt(starts, nums []int, offset int) int {
	page := 1
	for i, s := range starts {
		if offset < s {
			break
		}
		page = nums[i]
	}
	return page
}
