// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies defaults, YAML overlay, environment parsing, and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.EmbeddingProvider != EmbedderOpenAI {
		t.Errorf("EmbeddingProvider = %s, want %s", cfg.EmbeddingProvider, EmbedderOpenAI)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("ChunkOverlap = %d, want 100", cfg.ChunkOverlap)
	}
	if cfg.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", cfg.MaxResults)
	}
	if cfg.MaxHistory != 2 {
		t.Errorf("MaxHistory = %d, want 2", cfg.MaxHistory)
	}
	if cfg.MaxToolRounds != 2 {
		t.Errorf("MaxToolRounds = %d, want 2", cfg.MaxToolRounds)
	}
	if cfg.CourseMatchThreshold != 0.4 {
		t.Errorf("CourseMatchThreshold = %f, want 0.4", cfg.CourseMatchThreshold)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %s, want :8000", cfg.Addr)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	os.Setenv("COURSEMATE_CHAT_MODEL", "gpt-4")
	os.Setenv("COURSEMATE_EMBEDDER", "hash")
	os.Setenv("OPENAI_TIMEOUT", "60s")
	os.Setenv("CHUNK_SIZE", "400")
	os.Setenv("CHUNK_OVERLAP", "50")
	os.Setenv("MAX_RESULTS", "3")
	os.Setenv("MAX_HISTORY", "4")
	os.Setenv("COURSEMATE_DB", "/tmp/courses.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.OpenAIBaseURL != "http://localhost:11434/v1" {
		t.Errorf("OpenAIBaseURL = %s, want http://localhost:11434/v1", cfg.OpenAIBaseURL)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.EmbeddingProvider != EmbedderHash {
		t.Errorf("EmbeddingProvider = %s, want hash", cfg.EmbeddingProvider)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.ChunkSize != 400 || cfg.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d, want 400/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.MaxResults != 3 {
		t.Errorf("MaxResults = %d, want 3", cfg.MaxResults)
	}
	if cfg.MaxHistory != 4 {
		t.Errorf("MaxHistory = %d, want 4", cfg.MaxHistory)
	}
	if cfg.DBPath != "/tmp/courses.db" {
		t.Errorf("DBPath = %s, want /tmp/courses.db", cfg.DBPath)
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	os.Clearenv()
	path := filepath.Join(t.TempDir(), "coursemate.yaml")
	yamlData := `chat_model: gpt-4.1
chunk_size: 600
chunk_overlap: 60
max_results: 8
retry_delay: 5s
addr: ":9000"
`
	if err := os.WriteFile(path, []byte(yamlData), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	os.Setenv("MAX_RESULTS", "2")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.ChatModel != "gpt-4.1" {
		t.Errorf("ChatModel = %s, want gpt-4.1", cfg.ChatModel)
	}
	if cfg.ChunkSize != 600 || cfg.ChunkOverlap != 60 {
		t.Errorf("chunking = %d/%d, want 600/60", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.RetryDelay != 5*time.Second {
		t.Errorf("RetryDelay = %v, want 5s", cfg.RetryDelay)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %s, want :9000", cfg.Addr)
	}
	// Environment wins over the file
	if cfg.MaxResults != 2 {
		t.Errorf("MaxResults = %d, want 2", cfg.MaxResults)
	}
	// Untouched fields keep defaults
	if cfg.MaxHistory != 2 {
		t.Errorf("MaxHistory = %d, want 2", cfg.MaxHistory)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	os.Clearenv()
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile() with missing file should fail")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"overlap not below chunk size", map[string]string{"CHUNK_SIZE": "100", "CHUNK_OVERLAP": "100"}},
		{"zero chunk size", map[string]string{"CHUNK_SIZE": "0"}},
		{"zero max results", map[string]string{"MAX_RESULTS": "0"}},
		{"negative history", map[string]string{"MAX_HISTORY": "-1"}},
		{"zero tool rounds", map[string]string{"MAX_TOOL_ROUNDS": "0"}},
		{"threshold above one", map[string]string{"COURSE_MATCH_THRESHOLD": "1.5"}},
		{"too many retries", map[string]string{"OPENAI_MAX_RETRIES": "11"}},
		{"unknown embedder", map[string]string{"COURSEMATE_EMBEDDER": "bert"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail for %s", tt.name)
			}
		})
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("MAX_RESULTS", "lots")
	os.Setenv("OPENAI_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", cfg.MaxResults)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	os.Clearenv()
	os.Setenv("XDG_DATA_HOME", "/data")

	if got, want := DefaultDBPath(), filepath.Join("/data", "coursemate", "coursemate.db"); got != want {
		t.Errorf("DefaultDBPath() = %s, want %s", got, want)
	}
}
