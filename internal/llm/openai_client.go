// ABOUTME: OpenAI client for embeddings and tool-calling chat completions
// ABOUTME: Embeddings are batched and retried; chat calls are throttled and fail fast
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harper/coursemate/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// embeddingBatchSize bounds how many inputs go into one embeddings request
	embeddingBatchSize = 96
)

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("OpenAI API key is required")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	ChatModel         string
	EmbeddingModel    string
	MaxRetries        int
	RetryDelay        time.Duration
	Timeout           time.Duration
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
		Timeout:        30 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic and optional throttling
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	maxRetries     int
	backoff        util.Backoff
	timeout        time.Duration
	limiter        *rate.Limiter
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration.
// A BaseURL points the client at any OpenAI-compatible endpoint.
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientConfig),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		maxRetries:     config.MaxRetries,
		backoff:        util.Backoff{Base: config.RetryDelay},
		timeout:        timeout,
		limiter:        limiter,
	}, nil
}

// GetClient returns the underlying OpenAI client for direct use
func (c *OpenAIClient) GetClient() *openai.Client {
	return c.client
}

// ChatModel returns the model used for chat completions
func (c *OpenAIClient) ChatModel() string {
	return c.chatModel
}

// ModelName identifies the embedding space produced by Embed
func (c *OpenAIClient) ModelName() string {
	return string(c.embeddingModel)
}

// CreateChatCompletion sends one chat request. The model is filled in when the request
// leaves it empty. Transport failures are returned without retrying.
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.chatModel
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("chat completion: no choices returned")
	}
	return resp, nil
}

// Embed returns one vector per input text, in input order
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(texts))
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.backoff.Wait(ctx, attempt); err != nil {
			return nil, err
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		vectors, err := c.requestEmbeddings(ctx, texts)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *OpenAIClient) requestEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	// Responses carry an index; place each vector where its input was
	vectors := make([][]float64, len(texts))
	for i, item := range resp.Data {
		idx := item.Index
		if idx < 0 || idx >= len(texts) {
			idx = i
		}
		vectors[idx] = toFloat64(item.Embedding)
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return vectors, nil
}

// Convert []float32 to []float64
func toFloat64(embedding32 []float32) []float64 {
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64
}
