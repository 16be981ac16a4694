// ABOUTME: Builds the full RAG pipeline from configuration
// ABOUTME: Shared by the CLI, HTTP server, MCP server, and benchmarks
package core

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/config"
	"github.com/harper/coursemate/internal/llm"
	"github.com/harper/coursemate/internal/storage"
	"github.com/harper/coursemate/internal/storage/sqlite"
	openai "github.com/sashabaranov/go-openai"
)

// InMemoryDBPath selects a throwaway database
const InMemoryDBPath = ":memory:"

// App holds the wired pipeline and the resources it owns
type App struct {
	Config *config.Config
	Store  *storage.VectorStore
	RAG    *RAGSystem
}

// Close releases the database
func (a *App) Close() error {
	return a.Store.Close()
}

// offlineChat stands in for the model when no API key is configured
type offlineChat struct{}

func (offlineChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, llm.ErrMissingAPIKey
}

// Bootstrap opens storage and wires the embedder, chat client, and RAG system.
// Without an API key ingestion still works with the hash embedder, but queries fail.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	var client *llm.OpenAIClient
	if cfg.OpenAIKey != "" {
		c, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:            cfg.OpenAIKey,
			BaseURL:           cfg.OpenAIBaseURL,
			ChatModel:         cfg.ChatModel,
			EmbeddingModel:    cfg.EmbeddingModel,
			MaxRetries:        cfg.MaxRetries,
			RetryDelay:        cfg.RetryDelay,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
		client = c
	} else {
		log.Warn("OPENAI_API_KEY not set, questions cannot be answered")
	}

	var embedder storage.Embedder
	switch cfg.EmbeddingProvider {
	case config.EmbedderHash:
		embedder = llm.NewHashEmbedder()
	default:
		if client == nil {
			return nil, fmt.Errorf("embedding provider %q: %w", cfg.EmbeddingProvider, llm.ErrMissingAPIKey)
		}
		embedder = client
	}

	var db *sqlite.DB
	var err error
	if cfg.DBPath == InMemoryDBPath {
		db, err = sqlite.OpenInMemory()
	} else {
		db, err = sqlite.Open(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := storage.NewVectorStore(ctx, db, embedder, storage.Options{
		MaxResults:           cfg.MaxResults,
		CourseMatchThreshold: cfg.CourseMatchThreshold,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var chat ChatCompleter = offlineChat{}
	if client != nil {
		chat = client
	}

	rag, err := NewRAGSystem(cfg, store, chat)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Debug("pipeline ready", "db", db.Path(), "embedder", embedder.ModelName(), "chat_model", cfg.ChatModel)
	return &App{Config: cfg, Store: store, RAG: rag}, nil
}
