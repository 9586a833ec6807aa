package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdocs/internal/models"
)

func TestResolve(t *testing.T) {
	fs := NewFS("/docs/root")
	assert.Equal(t, filepath.Join("/docs/root", "a.pdf"), fs.Resolve("a.pdf"))
	assert.Equal(t, "/abs/b.pdf", fs.Resolve("/abs/b.pdf"))

	noRoot := NewFS("")
	assert.Equal(t, "c.pdf", noRoot.Resolve("c.pdf"))
}

func TestReadRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	fs := NewFS(dir)
	data, err := fs.Read("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.True(t, fs.Exists("a.txt"))
}

func TestReadMissingIsNotFound(t *testing.T) {
	fs := NewFS(t.TempDir())
	_, err := fs.Read("missing.pdf")
	require.Error(t, err)

	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing.pdf", nf.Path)
	assert.False(t, fs.Exists("missing.pdf"))
}
