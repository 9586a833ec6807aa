package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RAGConfig struct {
	ChunkSize      int     `yaml:"chunk_size"`
	ChunkOverlap   int     `yaml:"chunk_overlap"`
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	DocsRoot       string  `yaml:"docs_root"`
	Collection     string  `yaml:"collection"`
	IndexPath      string  `yaml:"index_path"`
	InMemory       bool    `yaml:"in_memory"`
	EncryptionKey  string  `yaml:"encryption_key"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type DatabaseConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DSN        string `yaml:"dsn"`
	Password   string `yaml:"password"`
	Debug      bool   `yaml:"debug"`
	VectorSize int    `yaml:"vector_size"`
}

type Config struct {
	RAG      RAGConfig      `yaml:"rag"`
	LLM      LLMConfig      `yaml:"llm"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	Database DatabaseConfig `yaml:"database"`
}

const (
	defaultChunkSize      = 800
	defaultChunkOverlap   = 20
	defaultTopK           = 10
	defaultScoreThreshold = 0.6
	defaultCollection     = "q-a-bot"
	defaultIndexPath      = "./chromemdb"
	defaultVectorSize     = 768
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero values with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		c.RAG.ChunkOverlap = c.RAG.ChunkSize / 2
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.ScoreThreshold <= 0 {
		c.RAG.ScoreThreshold = defaultScoreThreshold
	}
	if c.RAG.Collection == "" {
		c.RAG.Collection = defaultCollection
	}
	if c.RAG.IndexPath == "" {
		c.RAG.IndexPath = defaultIndexPath
	}
	if c.Database.VectorSize <= 0 {
		c.Database.VectorSize = defaultVectorSize
	}
}
