package indexer

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"smartdocs/internal/parser"
	"smartdocs/internal/pipeline"
)

// Watch re-ingests supported files under dir as they are created or written,
// and drops removed files from the index. Blocks until ctx is cancelled.
// Content-hash keyed upserts make repeated events for one save harmless.
func Watch(ctx context.Context, p *pipeline.Pipeline, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("watching for document changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !parser.Supported(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				log.Info().Str("file", event.Name).Msg("file changed, re-indexing")
				if _, err := p.Ingest(ctx, event.Name); err != nil {
					log.Error().Err(err).Str("file", event.Name).Msg("re-index failed")
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				log.Info().Str("file", event.Name).Msg("file removed, dropping from index")
				if err := p.RemoveSource(ctx, event.Name); err != nil {
					log.Error().Err(err).Str("file", event.Name).Msg("index cleanup failed")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
