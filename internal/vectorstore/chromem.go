package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

const compress = false

// ChromemIndex is the embedded vector index backed by chromem-go. Entries are
// keyed by a content hash so re-ingesting an unchanged document overwrites
// the same records instead of duplicating them.
type ChromemIndex struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	encryptionKey string
	filePath      string
}

func NewChromemIndex(dbPath, collectionName string, inMemory bool, encryptionKey string) (*ChromemIndex, error) {
	var (
		db  *chromem.DB
		err error
	)
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &ChromemIndex{
		db:            db,
		collection:    collection,
		dbPath:        dbPath,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

func (m *ChromemIndex) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromem.Document{
			ID:      entryID(e),
			Content: e.Content,
			Metadata: map[string]string{
				"source": e.Source,
				"page":   strconv.Itoa(e.PageNumber),
				"chunk":  strconv.Itoa(e.ChunkID),
			},
			Embedding: e.Embedding,
		})
	}
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (m *ChromemIndex) Query(ctx context.Context, embedding []float32, k int) ([]Match, error) {
	if count := m.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		page, _ := strconv.Atoi(res.Metadata["page"])
		matches = append(matches, Match{
			Source:     res.Metadata["source"],
			PageNumber: page,
			Content:    res.Content,
			Score:      float64(res.Similarity),
		})
	}
	return matches, nil
}

// DeleteSource removes every entry whose source metadata matches.
func (m *ChromemIndex) DeleteSource(ctx context.Context, source string) error {
	return m.collection.Delete(ctx, map[string]string{"source": source}, nil)
}

// Export writes the collection to an encrypted file next to the database.
func (m *ChromemIndex) Export(ctx context.Context) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if err := m.db.ExportToFile(m.filePath, compress, m.encryptionKey, m.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}

// Import restores a previously exported collection, replacing the current
// contents.
func (m *ChromemIndex) Import(ctx context.Context) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	name := m.collection.Name
	if err := m.db.ImportFromFile(m.filePath, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to import database: %w", err)
	}
	// the import rebuilds the collection, so the old handle is stale
	collection := m.db.GetCollection(name, nil)
	if collection == nil {
		return fmt.Errorf("collection %s missing after import", name)
	}
	m.collection = collection
	return nil
}

func entryID(e Entry) string {
	h := sha256.New()
	h.Write([]byte(e.Source))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(e.ChunkID)))
	h.Write([]byte("|"))
	h.Write([]byte(e.Content))
	return hex.EncodeToString(h.Sum(nil))
}
