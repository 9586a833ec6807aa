package models

// Page is one extraction unit of a source document, usually a PDF page,
// a spreadsheet sheet or a slide.
type Page struct {
	Number int
	Text   string
}

// Document is an ingested source file with its extracted page structure.
type Document struct {
	Path  string
	Pages []Page
}

// Chunk is a normalized text segment derived from one document.
type Chunk struct {
	Content    string
	Source     string
	PageNumber int
	ChunkID    int
}

// SearchResult is one entry of a search response. Within a single response
// no two results share a Path, and results are ordered by descending Score.
type SearchResult struct {
	Path  string
	Score float64
	Data  []byte
}

// RefinedDocument is one entry of a refine response.
type RefinedDocument struct {
	Path string
	Data []byte
}
