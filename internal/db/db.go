package db

import (
	"context"
	"database/sql"

	"docrouter/internal/config"
	"docrouter/internal/models"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Document is one stored chunk with its embedding and routing metadata.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	SourceFile    string    `bun:"source_file,notnull"`
	ContentType   string    `bun:"content_type"`
	PageNumber    int       `bun:"page_number"`
	ChunkID       int       `bun:"chunk_id"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key))), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx)
	return err
}

// StoreDocuments inserts embedded chunks in one batch.
func StoreDocuments(ctx context.Context, db *bun.DB, chunkEmbeddings []models.ChunkEmbedding) error {
	if len(chunkEmbeddings) == 0 {
		return nil
	}
	docs := make([]Document, len(chunkEmbeddings))
	for i, ce := range chunkEmbeddings {
		docs[i] = Document{
			Content:     ce.Content,
			Embedding:   ce.Embedding,
			SourceFile:  ce.SourceFilename,
			ContentType: string(ce.ContentType),
			PageNumber:  ce.PageNumber,
			ChunkID:     ce.ChunkID,
		}
	}
	_, err := db.NewInsert().Model(&docs).Exec(ctx)
	return err
}

func SearchDocuments(ctx context.Context, db *bun.DB, queryEmbedding []float32, limit int) ([]Document, error) {
	var docs []Document
	err := db.NewSelect().
		Model(&docs).
		Column("id", "content", "source_file", "content_type", "page_number", "chunk_id").
		OrderExpr("embedding <-> ?", queryEmbedding).
		Limit(limit).
		Scan(ctx)
	return docs, err
}

// drop table documents

func DropDocuments(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx)
	return err
}
