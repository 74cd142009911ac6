package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	content := `rag:
  chunk_size: 1000
  chunk_overlap: 150
  top_k: 3
router:
  workers: 8
  file_timeout: 30s
embed_llm:
  base_url: http://localhost:11434
  model: nomic-embed-text
storage:
  backend: postgres
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 1000 || cfg.RAG.ChunkOverlap != 150 || cfg.RAG.TopK != 3 {
		t.Errorf("rag section = %+v", cfg.RAG)
	}
	if cfg.Router.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Router.Workers)
	}
	if cfg.Router.FileTimeout != 30*time.Second {
		t.Errorf("file_timeout = %v, want 30s", cfg.Router.FileTimeout)
	}
	if cfg.EmbedLLM.Model != "nomic-embed-text" {
		t.Errorf("embed model = %q", cfg.EmbedLLM.Model)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Errorf("backend = %q, want postgres", cfg.Storage.Backend)
	}
	// Unset fields still get defaults.
	if cfg.Storage.Collection != "documents" {
		t.Errorf("collection = %q, want default", cfg.Storage.Collection)
	}
}

func TestLoadConfigBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("router:\n  file_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Router.Workers != defaultWorkers {
		t.Errorf("workers = %d, want %d", cfg.Router.Workers, defaultWorkers)
	}
	if cfg.Router.FileTimeout != defaultFileTimeout {
		t.Errorf("file_timeout = %v, want %v", cfg.Router.FileTimeout, defaultFileTimeout)
	}
	if cfg.RAG.ChunkOverlap != defaultChunkOverlap || cfg.RAG.TopK != defaultTopK {
		t.Errorf("rag defaults = %+v", cfg.RAG)
	}
	if cfg.Storage.Backend != "chromem" || cfg.Storage.Collection != "documents" {
		t.Errorf("storage defaults = %+v", cfg.Storage)
	}
}
