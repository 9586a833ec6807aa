package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartdocs/internal/config"
	"smartdocs/internal/pipeline"
	"smartdocs/internal/storage"
	"smartdocs/internal/vectorstore"
)

type nopEmbedder struct{}

func (nopEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type nopLLM struct{}

func (nopLLM) Generate(ctx context.Context, prompt string) (string, error) { return "", nil }

func newWatchPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	index, err := vectorstore.NewChromemIndex("", "watch-test", true, "")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return pipeline.New(cfg, index, nopEmbedder{}, nopLLM{}, storage.NewFS(""))
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), newWatchPipeline(t), "/does/not/exist")
	require.Error(t, err)
}

func TestWatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newWatchPipeline(t)
	dir := t.TempDir()
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, p, dir) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
