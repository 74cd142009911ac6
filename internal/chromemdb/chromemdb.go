package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"docrouter/internal/models"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	compress      bool
	encryptionKey string
	filePath      string
}

const (
	compress = false
)

// NewVectorDBManager initializes a new vector database manager
func NewVectorDBManager(dbPath, collectionName string, inMemory bool, encryptionKey string) (*VectorDBManager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	return &VectorDBManager{
		db:            db,
		collection:    nil,
		dbPath:        dbPath,
		compress:      compress,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

// create or read collection
func (m *VectorDBManager) GetOrCreateCollection(collectionName string) (*chromem.Collection, error) {
	c, err := m.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}
	m.collection = c
	return c, nil
}

// DocumentsFromEmbeddings converts embedded chunks to chromem documents,
// attaching the routing metadata downstream retrieval filters on.
func DocumentsFromEmbeddings(chunkEmbeddings []models.ChunkEmbedding) []chromem.Document {
	docs := make([]chromem.Document, 0, len(chunkEmbeddings))
	for _, ce := range chunkEmbeddings {
		docs = append(docs, chromem.Document{
			ID:        fmt.Sprintf("%s-%d-%d", ce.SourceFilename, ce.PageNumber, ce.ChunkID),
			Content:   ce.Content,
			Embedding: ce.Embedding,
			Metadata: map[string]string{
				"file_id":      ce.SourceFilename,
				"content_type": string(ce.ContentType),
				"page":         strconv.Itoa(ce.PageNumber),
			},
		})
	}
	return docs
}

// add multiple documents
func (m *VectorDBManager) CreateDocs(ctx context.Context, documents []chromem.Document) error {
	err := m.collection.AddDocuments(ctx, documents, runtime.NumCPU())
	if err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// SearchWithQueryOptions performs a similarity search
func (m *VectorDBManager) SearchWithQueryOptions(ctx context.Context, opts chromem.QueryOptions) ([]chromem.Result, error) {
	// exit if query or embedding is not provided
	if opts.QueryText == "" && opts.QueryEmbedding == nil {
		return nil, fmt.Errorf("either query or embedding must be provided")
	}

	results, err := m.collection.QueryWithOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	return results, nil
}

// delete collection
func (m *VectorDBManager) DeleteCollection() error {
	err := m.db.DeleteCollection(m.collection.Name)
	if err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	return nil
}

// export to file
func (m *VectorDBManager) Export(ctx context.Context) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}

	log.Debug().Msgf("Exporting collection %s to %s", m.collection.Name, m.filePath)
	err := m.db.ExportToFile(m.filePath, m.compress, m.encryptionKey, m.collection.Name)
	if err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// import from file
func (m *VectorDBManager) Import(ctx context.Context) error {
	err := m.db.ImportFromFile(m.dbPath, m.encryptionKey, m.collection.Name)
	if err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}
	return nil
}
