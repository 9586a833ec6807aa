package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"smartdocs/internal/embedding"
	"smartdocs/internal/models"
	"smartdocs/internal/storage"
	"smartdocs/internal/vectorstore"
)

// Retriever answers similarity queries against the vector index, filtering by
// relevance score and deduplicating by source document.
type Retriever struct {
	index     vectorstore.Index
	embedder  embedding.Embedder
	store     storage.Store
	k         int
	threshold float64
}

func New(index vectorstore.Index, embedder embedding.Embedder, store storage.Store, k int, threshold float64) *Retriever {
	if k <= 0 {
		k = 10
	}
	return &Retriever{index: index, embedder: embedder, store: store, k: k, threshold: threshold}
}

// Search returns at most one result per source document, ordered by
// descending relevance score, with the raw document bytes attached. An
// indexed source whose backing file cannot be read fails the call: that is
// index/storage divergence, not a miss.
func (r *Retriever) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	matches, err := r.TopChunks(ctx, query)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	seen := make(map[string]bool)
	for _, m := range matches {
		if seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		data, err := r.store.Read(m.Source)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SearchResult{
			Path:  m.Source,
			Score: m.Score,
			Data:  data,
		})
	}
	log.Debug().Int("matches", len(matches)).Int("documents", len(results)).Msg("search complete")
	return results, nil
}

// TopChunks returns the chunk-granularity matches above the score threshold in
// descending score order. The answer synthesizer builds its context from
// these without the document-level dedup and byte loading of Search.
func (r *Retriever) TopChunks(ctx context.Context, query string) ([]vectorstore.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.ErrInvalidQuery
	}

	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &models.UpstreamError{Component: "embedding gateway", Err: err}
	}

	matches, err := r.index.Query(ctx, queryEmbedding, r.k)
	if err != nil {
		return nil, &models.UpstreamError{Component: "vector index", Err: err}
	}

	kept := matches[:0]
	for _, m := range matches {
		if m.Score >= r.threshold {
			kept = append(kept, m)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return kept, nil
}
