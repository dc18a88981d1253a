package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.ChunkSize != 500 {
		t.Errorf("expected ChunkSize=500, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.Overlap != 50 {
		t.Errorf("expected Overlap=50, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Chunking.MaxTotalChunks != 1000 {
		t.Errorf("expected MaxTotalChunks=1000, got %d", cfg.Chunking.MaxTotalChunks)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Generation.TimeoutSeconds != 120 {
		t.Errorf("expected TimeoutSeconds=120, got %d", cfg.Generation.TimeoutSeconds)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("expected provider=ollama, got %s", cfg.Embedding.Provider)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docqa.yaml")

	content := `
chunking:
  chunk_size: 300
  overlap: 30
retrieve:
  top_k: 5
embedding:
  provider: hash
  dimension: 64
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunking.ChunkSize != 300 {
		t.Errorf("expected ChunkSize=300, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Embedding.Provider != "hash" {
		t.Errorf("expected provider=hash, got %s", cfg.Embedding.Provider)
	}
	// Untouched sections keep their defaults.
	if cfg.Generation.Model != "llama3.1" {
		t.Errorf("expected default generation model, got %s", cfg.Generation.Model)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docqa.yaml")

	content := `
server:
  addr: ":8080"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
}

func TestGenerationTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GenerationTimeout() != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.GenerationTimeout())
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Logging.Level = tt.level
		if got := cfg.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestStorePath(t *testing.T) {
	path := StorePath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".docqa", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
