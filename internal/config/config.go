// ABOUTME: Centralized configuration for the course assistant
// ABOUTME: Layers defaults, an optional YAML file, and environment variables, then validates
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Embedding providers
const (
	EmbedderOpenAI = "openai"
	EmbedderHash   = "hash"
)

// Config holds all configuration for the course assistant
type Config struct {
	// OpenAI settings
	OpenAIKey         string        `yaml:"-"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	ChatModel         string        `yaml:"chat_model"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	EmbeddingProvider string        `yaml:"embedding_provider"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Temperature       float64       `yaml:"temperature"`
	MaxTokens         int           `yaml:"max_tokens"`

	// Document processing
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Retrieval settings
	MaxResults           int     `yaml:"max_results"`
	CourseMatchThreshold float64 `yaml:"course_match_threshold"`

	// Conversation settings
	MaxHistory    int `yaml:"max_history"`
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// Storage and serving
	DBPath  string `yaml:"db_path"`
	DocsDir string `yaml:"docs_dir"`
	Addr    string `yaml:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ChatModel:            "gpt-4o-mini",
		EmbeddingModel:       "text-embedding-3-small",
		EmbeddingProvider:    EmbedderOpenAI,
		Timeout:              30 * time.Second,
		MaxRetries:           3,
		RetryDelay:           2 * time.Second,
		MaxTokens:            800,
		ChunkSize:            800,
		ChunkOverlap:         100,
		MaxResults:           5,
		CourseMatchThreshold: 0.4,
		MaxHistory:           2,
		MaxToolRounds:        2,
		DBPath:               DefaultDBPath(),
		DocsDir:              "docs",
		Addr:                 ":8000",
	}
}

// Load reads configuration from COURSEMATE_CONFIG (if set) and environment variables
func Load() (*Config, error) {
	return LoadFile(os.Getenv("COURSEMATE_CONFIG"))
}

// LoadFile reads configuration from the YAML file at path, then applies environment overrides.
// An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ChatModel = getEnv("COURSEMATE_CHAT_MODEL", c.ChatModel)
	c.EmbeddingModel = getEnv("COURSEMATE_EMBEDDING_MODEL", c.EmbeddingModel)
	c.EmbeddingProvider = getEnv("COURSEMATE_EMBEDDER", c.EmbeddingProvider)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.RequestsPerSecond = getEnvFloat("OPENAI_RPS", c.RequestsPerSecond)
	c.Temperature = getEnvFloat("COURSEMATE_TEMPERATURE", c.Temperature)
	c.MaxTokens = getEnvInt("COURSEMATE_MAX_TOKENS", c.MaxTokens)
	c.ChunkSize = getEnvInt("CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = getEnvInt("CHUNK_OVERLAP", c.ChunkOverlap)
	c.MaxResults = getEnvInt("MAX_RESULTS", c.MaxResults)
	c.CourseMatchThreshold = getEnvFloat("COURSE_MATCH_THRESHOLD", c.CourseMatchThreshold)
	c.MaxHistory = getEnvInt("MAX_HISTORY", c.MaxHistory)
	c.MaxToolRounds = getEnvInt("MAX_TOOL_ROUNDS", c.MaxToolRounds)
	c.DBPath = getEnv("COURSEMATE_DB", c.DBPath)
	c.DocsDir = getEnv("COURSEMATE_DOCS", c.DocsDir)
	c.Addr = getEnv("COURSEMATE_ADDR", c.Addr)
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be 0-%d, got %d", c.ChunkSize-1, c.ChunkOverlap)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("MAX_RESULTS must be positive, got %d", c.MaxResults)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("MAX_HISTORY must not be negative, got %d", c.MaxHistory)
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("MAX_TOOL_ROUNDS must be at least 1, got %d", c.MaxToolRounds)
	}
	if c.CourseMatchThreshold < 0 || c.CourseMatchThreshold > 1 {
		return fmt.Errorf("COURSE_MATCH_THRESHOLD must be 0-1, got %f", c.CourseMatchThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.EmbeddingProvider != EmbedderOpenAI && c.EmbeddingProvider != EmbedderHash {
		return fmt.Errorf("COURSEMATE_EMBEDDER must be %q or %q, got %q", EmbedderOpenAI, EmbedderHash, c.EmbeddingProvider)
	}
	return nil
}

// DefaultDataDir returns the default data directory following the XDG spec
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/coursemate"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "coursemate")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "coursemate.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
