package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"smartdocs/internal/config"
	"smartdocs/internal/vectorstore"
)

type documentRow struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Source        string    `bun:"source,notnull"`
	PageNumber    int       `bun:"page_number"`
	ChunkID       int       `bun:"chunk_id"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull"`
	Score         float64   `bun:"score,scanonly"`
}

func Connect(cfg *config.DatabaseConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(withSSLMode(cfg.DSN)),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// withSSLMode disables TLS unless the DSN already settles it, using the right
// separator when the DSN carries query parameters of its own.
func withSSLMode(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&sslmode=disable"
	}
	return dsn + "?sslmode=disable"
}

// PGIndex is the Postgres/pgvector implementation of vectorstore.Index. The
// embedding column is dimensioned from config, so the table only accepts
// vectors of the size the embedder produces.
type PGIndex struct {
	db         *bun.DB
	vectorSize int
}

func NewPGIndex(db *bun.DB, vectorSize int) *PGIndex {
	if vectorSize <= 0 {
		vectorSize = 768
	}
	return &PGIndex{db: db, vectorSize: vectorSize}
}

func (p *PGIndex) Init(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, p.initDDL())
	return err
}

func (p *PGIndex) initDDL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	page_number INTEGER,
	chunk_id INTEGER,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL
)`, p.vectorSize)
}

func (p *PGIndex) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]documentRow, len(entries))
	for i, e := range entries {
		rows[i] = documentRow{
			Source:     e.Source,
			PageNumber: e.PageNumber,
			ChunkID:    e.ChunkID,
			Content:    e.Content,
			Embedding:  e.Embedding,
		}
	}
	// Replace any previous version of the same sources before inserting.
	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.Source] {
			continue
		}
		seen[e.Source] = true
		if _, err := p.db.NewDelete().Model((*documentRow)(nil)).Where("source = ?", e.Source).Exec(ctx); err != nil {
			return fmt.Errorf("deleting stale rows for %s: %w", e.Source, err)
		}
	}
	_, err := p.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func (p *PGIndex) Query(ctx context.Context, embedding []float32, k int) ([]vectorstore.Match, error) {
	var rows []documentRow
	err := p.db.NewSelect().
		Model(&rows).
		Column("source", "page_number", "content").
		ColumnExpr("1 - (embedding <=> ?) AS score", embedding).
		OrderExpr("embedding <=> ?", embedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, len(rows))
	for i, r := range rows {
		matches[i] = vectorstore.Match{
			Source:     r.Source,
			PageNumber: r.PageNumber,
			Content:    r.Content,
			Score:      r.Score,
		}
	}
	return matches, nil
}

func (p *PGIndex) DeleteSource(ctx context.Context, source string) error {
	_, err := p.db.NewDelete().Model((*documentRow)(nil)).Where("source = ?", source).Exec(ctx)
	return err
}

func (p *PGIndex) Close() error {
	return p.db.Close()
}
