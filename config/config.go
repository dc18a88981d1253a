package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the question-answering pipeline.
type Config struct {
	Documents  DocumentsConfig  `yaml:"documents"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DocumentsConfig controls document discovery.
type DocumentsConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig bounds the chunking policy.
type ChunkingConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	Overlap         int `yaml:"overlap"`
	MinChunkChars   int `yaml:"min_chunk_chars"`
	MaxDocChars     int `yaml:"max_doc_chars"`
	MaxChunksPerDoc int `yaml:"max_chunks_per_doc"`
	MaxTotalChunks  int `yaml:"max_total_chunks"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "ollama", "openai", "hash"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Dimension int    `yaml:"dimension"` // used by the hash provider
	BatchSize int    `yaml:"batch_size"`
}

// GenerationConfig configures the generation backend.
type GenerationConfig struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RetrieveConfig holds retrieval defaults.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Documents: DocumentsConfig{
			Dir:      "documents",
			Includes: []string{"**/*.txt", "**/*.md", "**/*.pdf"},
			Excludes: []string{},
		},
		Chunking: ChunkingConfig{
			ChunkSize:       500,
			Overlap:         50,
			MinChunkChars:   10,
			MaxDocChars:     50000,
			MaxChunksPerDoc: 200,
			MaxTotalChunks:  1000,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			BaseURL:   "http://localhost:11434",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 256,
			BatchSize: 100,
		},
		Generation: GenerationConfig{
			Model:          "llama3.1",
			BaseURL:        "http://localhost:11434",
			APIKeyEnv:      "OLLAMA_API_KEY",
			TimeoutSeconds: 120,
		},
		Retrieve: RetrieveConfig{
			TopK: 3,
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docqa.yaml,
// then .docqa/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GenerationTimeout returns the generation call bound as a duration.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// LogLevel parses the configured logging level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StorePath returns the path to the persisted index database.
func StorePath(dir string) string {
	return filepath.Join(dir, ".docqa", "index.db")
}

// EnsureStateDir ensures the .docqa directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docqa"), 0755)
}
