package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"smartdocs/internal/chunker"
	"smartdocs/internal/config"
	"smartdocs/internal/embedding"
	"smartdocs/internal/helper"
	"smartdocs/internal/llmservice"
	"smartdocs/internal/models"
	"smartdocs/internal/parser"
	"smartdocs/internal/rag"
	"smartdocs/internal/refiner"
	"smartdocs/internal/retriever"
	"smartdocs/internal/storage"
	"smartdocs/internal/vectorstore"
)

// Pipeline holds the long-lived collaborator handles and wires the ingest,
// search, refine and ask operations. It is constructed once at process start
// and passed around by reference; it keeps no per-request state.
type Pipeline struct {
	cfg       *config.Config
	index     vectorstore.Index
	embedder  embedding.Embedder
	store     storage.Store
	chunker   *chunker.Chunker
	retriever *retriever.Retriever
	refiner   *refiner.Refiner
	rag       *rag.RAG
}

func New(cfg *config.Config, index vectorstore.Index, embedder embedding.Embedder, llm llmservice.Generator, store storage.Store) *Pipeline {
	ret := retriever.New(index, embedder, store, cfg.RAG.TopK, cfg.RAG.ScoreThreshold)
	return &Pipeline{
		cfg:       cfg,
		index:     index,
		embedder:  embedder,
		store:     store,
		chunker:   chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		retriever: ret,
		refiner:   refiner.New(llm, store),
		rag:       rag.NewRAG(ret, llm),
	}
}

// IngestReport aggregates the outcome of one ingest call. Per-document
// failures do not abort the batch; they are collected here.
type IngestReport struct {
	BatchID  string
	Ingested []string
	Failed   []*models.IngestionError
}

// Ingest chunks, embeds and indexes one file or every supported file under a
// directory.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*IngestReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	if info.IsDir() {
		err = filepath.Walk(path, func(fp string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && parser.Supported(fp) {
				files = append(files, fp)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		files = []string{path}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported documents under %s", path)
	}

	batchID, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	report := &IngestReport{BatchID: batchID}

	for _, file := range files {
		if err := p.ingestFile(ctx, file); err != nil {
			ie := &models.IngestionError{Path: file, Err: err}
			report.Failed = append(report.Failed, ie)
			log.Warn().Err(ie).Str("file", file).Msg("document skipped")
			continue
		}
		report.Ingested = append(report.Ingested, file)
	}
	log.Info().
		Str("batch", batchID).
		Int("ingested", len(report.Ingested)).
		Int("failed", len(report.Failed)).
		Msg("ingest finished")
	return report, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, path string) error {
	doc, err := parser.Extract(path)
	if err != nil {
		return err
	}

	chunks := p.chunker.Chunk(doc)
	if len(chunks) == 0 {
		log.Info().Str("file", path).Msg("no text extracted, nothing to index")
		return nil
	}

	entries := make([]vectorstore.Entry, 0, len(chunks))
	for _, chunk := range chunks {
		emb, err := p.embedder.EmbedQuery(ctx, chunk.Content)
		if err != nil {
			return &models.UpstreamError{Component: "embedding gateway", Err: err}
		}
		entries = append(entries, vectorstore.Entry{
			Source:     chunk.Source,
			PageNumber: chunk.PageNumber,
			ChunkID:    chunk.ChunkID,
			Content:    chunk.Content,
			Embedding:  emb,
		})
	}

	if err := p.index.Upsert(ctx, entries); err != nil {
		return &models.UpstreamError{Component: "vector index", Err: err}
	}
	log.Debug().Str("file", path).Int("chunks", len(entries)).Msg("document indexed")
	return nil
}

func (p *Pipeline) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return p.retriever.Search(ctx, query)
}

func (p *Pipeline) Refine(ctx context.Context, query string, candidates []string) ([]models.RefinedDocument, error) {
	return p.refiner.Refine(ctx, query, candidates)
}

func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	return p.rag.Answer(ctx, question)
}

// RemoveSource drops every indexed chunk of one source document, if the
// index backend supports it.
func (p *Pipeline) RemoveSource(ctx context.Context, source string) error {
	sd, ok := p.index.(vectorstore.SourceDeleter)
	if !ok {
		return fmt.Errorf("index backend cannot delete by source")
	}
	return sd.DeleteSource(ctx, source)
}
