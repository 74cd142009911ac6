package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docrouter/internal/chromemdb"
	"docrouter/internal/chunker"
	"docrouter/internal/config"
	"docrouter/internal/db"
	"docrouter/internal/embedding"
	"docrouter/internal/extractor"
	"docrouter/internal/helper"
	"docrouter/internal/models"
	"docrouter/internal/rag"
	"docrouter/internal/router"
)

const (
	defaultConfigPath = "./configs/config.yaml"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	dirPath := flag.String("dir", "", "Directory of documents to ingest")
	filePath := flag.String("file", "", "Path to a single document file to route")
	query := flag.String("query", "", "Query to be answered")
	workers := flag.Int("workers", 0, "Override batch worker count")
	dryRun := flag.Bool("dry-run", false, "Route and classify only, do not embed or store")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *workers > 0 {
		cfg.Router.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *dirPath != "":
		ingestDirectory(ctx, cfg, *dirPath, *dryRun)
	case *filePath != "":
		routeSingleFile(ctx, cfg, *filePath)
	case *query != "":
		answerQuery(ctx, cfg, *query)
	default:
		log.Fatal().Msg("Please provide -dir, -file, or -query")
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Warn().Err(err).Msg("Config not loaded, using defaults")
		return config.Default()
	}
	return cfg
}

// ingestDirectory routes every supported file in dir as one batch, then
// chunks, embeds, and stores the surviving content.
func ingestDirectory(ctx context.Context, cfg *config.Config, dir string, dryRun bool) {
	paths, err := collectFiles(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error listing directory")
	}
	if len(paths) == 0 {
		log.Fatal().Str("dir", dir).Msg("No supported files found")
	}

	batchID, err := helper.GenerateUUID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating batch id")
	}
	log.Info().Str("batch_id", batchID).Int("files", len(paths)).Int("workers", cfg.Router.Workers).Msg("Routing batch")

	r := router.New(cfg)
	results, stats := r.RouteBatch(ctx, paths)

	log.Info().Msg("Batch statistics")
	helper.PrettyPrint(stats.Snapshot())

	var allChunks []models.Chunk
	byFile := map[string][]models.Chunk{}
	for _, res := range results {
		if res.Status == models.StatusFailed {
			log.Warn().Str("file", res.FileID).Str("detail", res.ErrorDetail).Msg("Skipping failed file")
			continue
		}
		chunks, err := chunker.Split(res, cfg.RAG.ChunkOverlap)
		if err != nil {
			log.Error().Str("file", res.FileID).Err(err).Msg("Error chunking")
			continue
		}
		allChunks = append(allChunks, chunks...)
		byFile[res.FileID] = chunks
	}
	log.Info().Int("chunks", len(allChunks)).Msg("Chunking complete")

	if dryRun {
		return
	}

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	var chunkEmbeddings []models.ChunkEmbedding
	for fileID, chunks := range byFile {
		ce, err := embedding.EmbedChunks(ctx, embedder, fileID, chunks)
		if err != nil {
			log.Fatal().Err(err).Msg("Error generating embeddings")
		}
		chunkEmbeddings = append(chunkEmbeddings, ce...)
	}

	switch cfg.Storage.Backend {
	case "postgres":
		storePostgres(ctx, cfg, chunkEmbeddings)
	default:
		storeChromem(ctx, cfg, chunkEmbeddings)
	}
}

func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if extractor.Supported(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func storeChromem(ctx context.Context, cfg *config.Config, chunkEmbeddings []models.ChunkEmbedding) {
	if err := helper.CreateFolder(cfg.Storage.Path); err != nil {
		log.Fatal().Err(err).Msg("Error creating storage folder")
	}

	vdb, err := chromemdb.NewVectorDBManager(cfg.Storage.Path, cfg.Storage.Collection, cfg.Storage.InMemory, cfg.RAG.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector database manager")
	}
	if _, err := vdb.GetOrCreateCollection(cfg.Storage.Collection); err != nil {
		log.Fatal().Err(err).Msg("Error creating collection")
	}

	docs := chromemdb.DocumentsFromEmbeddings(chunkEmbeddings)
	log.Info().Int("documents", len(docs)).Msg("Adding documents to vector database")
	if err := vdb.CreateDocs(ctx, docs); err != nil {
		log.Fatal().Err(err).Msg("Error adding documents to vector database")
	}

	if cfg.Storage.InMemory {
		if err := vdb.Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error exporting collection")
		}
	}
}

func storePostgres(ctx context.Context, cfg *config.Config, chunkEmbeddings []models.ChunkEmbedding) {
	dbClient, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	dbInstance := db.NewDB(dbClient, cfg.Database.Debug)
	defer dbInstance.Close()

	if err := db.InitDB(ctx, dbInstance); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	if err := db.StoreDocuments(ctx, dbInstance, chunkEmbeddings); err != nil {
		log.Fatal().Err(err).Msg("Error storing documents")
	}
	log.Info().Int("documents", len(chunkEmbeddings)).Msg("Stored documents in postgres")
}

// routeSingleFile routes one file and prints the processing record.
func routeSingleFile(ctx context.Context, cfg *config.Config, path string) {
	r := router.New(cfg)
	res := r.Route(ctx, path)

	summary := map[string]interface{}{
		"file_id":       res.FileID,
		"status":        res.Status,
		"fallback_used": res.FallbackUsed,
	}
	if res.ErrorDetail != "" {
		summary["error_detail"] = res.ErrorDetail
	}
	if res.Bundle != nil {
		summary["text_blocks"] = len(res.Bundle.TextBlocks)
		summary["tables"] = len(res.Bundle.Tables)
		summary["images"] = len(res.Bundle.Images)
	}
	if res.Classification != nil {
		summary["content_type"] = res.Classification.ContentType
		summary["quality_score"] = res.Classification.QualityScore
		summary["chunk_range"] = fmt.Sprintf("[%d, %d]", res.Classification.ChunkRange.Min, res.Classification.ChunkRange.Max)
		summary["strategy"] = res.Classification.Strategy
	}
	helper.PrettyPrint(summary)
}

func answerQuery(ctx context.Context, cfg *config.Config, query string) {
	vdb, err := chromemdb.NewVectorDBManager(cfg.Storage.Path, cfg.Storage.Collection, cfg.Storage.InMemory, cfg.RAG.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector database manager")
	}
	if _, err := vdb.GetOrCreateCollection(cfg.Storage.Collection); err != nil {
		log.Fatal().Err(err).Msg("Error opening collection")
	}

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	ragClient := rag.NewRAG(vdb, embedder, cfg)
	response, err := ragClient.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}
