package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartdocs/internal/config"
	"smartdocs/internal/db"
	"smartdocs/internal/embedding"
	"smartdocs/internal/helper"
	"smartdocs/internal/indexer"
	"smartdocs/internal/llmservice"
	"smartdocs/internal/pipeline"
	"smartdocs/internal/storage"
	"smartdocs/internal/vectorstore"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	configPath := flag.String("config", configFilePath, "Path to the config file")
	ingestPath := flag.String("ingest", "", "File or directory to ingest")
	query := flag.String("query", "", "Search query")
	candidates := flag.String("candidates", "", "Comma-separated candidate paths for -refine")
	refineQuery := flag.String("refine", "", "Query to refine against -candidates")
	question := flag.String("ask", "", "Question to answer from the indexed documents")
	watchDir := flag.String("watch", "", "Directory to watch and re-index on changes")
	export := flag.Bool("export", false, "Export the vector collection to an encrypted file")
	importColl := flag.Bool("import", false, "Import a previously exported collection")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.LLM.Key == "" {
		cfg.LLM.Key = os.Getenv("OPENROUTER_API_KEY")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, chromemIndex := buildPipeline(ctx, cfg)

	switch {
	case *ingestPath != "":
		report, err := p.Ingest(ctx, *ingestPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting")
		}
		for _, ie := range report.Failed {
			log.Error().Err(ie).Msg("document failed")
		}
		if *verbose {
			helper.PrettyPrint(report)
		}
		fmt.Printf("Ingested %d document(s), %d failed (batch %s)\n",
			len(report.Ingested), len(report.Failed), report.BatchID)

	case *query != "":
		results, err := p.Search(ctx, *query)
		if err != nil {
			log.Fatal().Err(err).Msg("Error searching")
		}
		if len(results) == 0 {
			fmt.Println("No matching documents found.")
			return
		}
		for i, res := range results {
			fmt.Printf("%d. %s [%.2f%% match, %d bytes]\n", i+1, res.Path, res.Score*100, len(res.Data))
		}

	case *refineQuery != "":
		paths := splitCandidates(*candidates)
		if len(paths) == 0 {
			log.Fatal().Msg("-refine requires -candidates")
		}
		refined, err := p.Refine(ctx, *refineQuery, paths)
		if err != nil {
			log.Fatal().Err(err).Msg("Error refining")
		}
		if len(refined) == 0 {
			fmt.Println("No documents matched after refinement.")
			return
		}
		for i, doc := range refined {
			fmt.Printf("%d. %s [%d bytes]\n", i+1, doc.Path, len(doc.Data))
		}

	case *question != "":
		answer, err := p.Ask(ctx, *question)
		if err != nil {
			log.Fatal().Err(err).Msg("Error answering")
		}
		fmt.Printf("%s\n", answer)

	case *watchDir != "":
		if err := indexer.Watch(ctx, p, *watchDir); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Watcher stopped")
		}

	case *export:
		if chromemIndex == nil {
			log.Fatal().Msg("export is only supported with the embedded index")
		}
		if err := chromemIndex.Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error exporting collection")
		}
		fmt.Println("Collection exported.")

	case *importColl:
		if chromemIndex == nil {
			log.Fatal().Msg("import is only supported with the embedded index")
		}
		if err := chromemIndex.Import(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error importing collection")
		}
		fmt.Println("Collection imported.")

	default:
		flag.Usage()
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, *vectorstore.ChromemIndex) {
	var (
		index        vectorstore.Index
		chromemIndex *vectorstore.ChromemIndex
	)
	if cfg.Database.Enabled {
		pg := db.NewPGIndex(db.Connect(&cfg.Database), cfg.Database.VectorSize)
		if err := pg.Init(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error initializing database")
		}
		index = pg
	} else {
		if !cfg.RAG.InMemory {
			if err := helper.CreateFolder(cfg.RAG.IndexPath); err != nil {
				log.Fatal().Err(err).Msg("Error creating index folder")
			}
		}
		ci, err := vectorstore.NewChromemIndex(cfg.RAG.IndexPath, cfg.RAG.Collection, cfg.RAG.InMemory, cfg.RAG.EncryptionKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating vector index")
		}
		index = ci
		chromemIndex = ci
	}

	embedder, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	llm, err := llmservice.NewClient(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing llm client")
	}

	store := storage.NewFS(cfg.RAG.DocsRoot)
	return pipeline.New(cfg, index, embedder, llm, store), chromemIndex
}

func splitCandidates(s string) []string {
	var paths []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
