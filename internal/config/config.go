package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RAG          RAGConfig      `yaml:"rag"`
	Router       RouterConfig   `yaml:"router"`
	EmbedLLM     LLMConfig      `yaml:"embed_llm"`
	InferenceLLM LLMConfig      `yaml:"inference_llm"`
	Database     DatabaseConfig `yaml:"database"`
	Storage      StorageConfig  `yaml:"storage"`
}

type RAGConfig struct {
	ChunkSize     int    `yaml:"chunk_size"`
	ChunkOverlap  int    `yaml:"chunk_overlap"`
	TopK          int    `yaml:"top_k"`
	EncryptionKey string `yaml:"encryption_key"`
}

type RouterConfig struct {
	Workers     int           `yaml:"workers"`
	FileTimeout time.Duration `yaml:"file_timeout"`
}

// UnmarshalYAML accepts file_timeout as a duration string like "60s".
func (r *RouterConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Workers     int    `yaml:"workers"`
		FileTimeout string `yaml:"file_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	r.Workers = raw.Workers
	if raw.FileTimeout != "" {
		d, err := time.ParseDuration(raw.FileTimeout)
		if err != nil {
			return fmt.Errorf("router.file_timeout: %w", err)
		}
		r.FileTimeout = d
	}
	return nil
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Key     string `yaml:"key"`
	Stream  bool   `yaml:"stream"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"` // "chromem" or "postgres"
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

const (
	defaultChunkOverlap = 200
	defaultTopK         = 5
	defaultWorkers      = 4
	defaultFileTimeout  = 60 * time.Second
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued tunables with working defaults.
func (c *Config) ApplyDefaults() {
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.Router.Workers <= 0 {
		c.Router.Workers = defaultWorkers
	}
	if c.Router.FileTimeout <= 0 {
		c.Router.FileTimeout = defaultFileTimeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "chromem"
	}
	if c.Storage.Collection == "" {
		c.Storage.Collection = "documents"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./chromemdb"
	}
}

// Default returns a config with all defaults applied, for callers that
// run without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
