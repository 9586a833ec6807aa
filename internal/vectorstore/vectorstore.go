package vectorstore

import "context"

// Entry is a chunk as stored in the vector index.
type Entry struct {
	Source     string
	PageNumber int
	ChunkID    int
	Content    string
	Embedding  []float32
}

// Match is one nearest-neighbor hit. Score is in [0,1], higher is better.
type Match struct {
	Source     string
	PageNumber int
	Content    string
	Score      float64
}

// Index is the narrow interface the pipeline consumes. Implementations own
// their internal consistency; a handle is created once and reused.
type Index interface {
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, embedding []float32, k int) ([]Match, error)
}

// SourceDeleter is implemented by indexes that can drop every entry of one
// source document, used when a watched file disappears.
type SourceDeleter interface {
	DeleteSource(ctx context.Context, source string) error
}
