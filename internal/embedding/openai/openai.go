// Package openai adapts the OpenAI embeddings API to the pipeline's
// Embedder port.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docrag/internal/domain"
)

// Defaults matching the OpenAI embeddings API.
const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config configures the embeddings client.
type Config struct {
	// APIKeyEnv names the env var holding the key. Default OPENAI_API_KEY.
	APIKeyEnv string
	// BaseURL overrides the API endpoint for compatible services.
	BaseURL string
	Model   string
	Timeout time.Duration
	// Dimensions overrides the model's native dimensionality
	// (text-embedding-3-* only).
	Dimensions int
}

// Client is a batch embeddings client. It re-orders the response by the
// API's index field so vectors always come back in input order.
type Client struct {
	api   *openai.Client
	model string
	dims  int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s: %w", cfg.APIKeyEnv, domain.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	occ := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		occ.BaseURL = cfg.BaseURL
	}
	occ.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = modelDimensions[cfg.Model]
		if dims == 0 {
			dims = 1536
		}
	}
	return &Client{api: openai.NewClientWithConfig(occ), model: cfg.Model, dims: dims}, nil
}

// EmbedBatch embeds texts in one API call and returns vectors in input
// order. An inconsistent response (count mismatch, duplicate or
// out-of-range index, uneven dimensions) fails with ErrEmbeddingOrder.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: texts,
	}
	if c.model == "text-embedding-3-small" || c.model == "text-embedding-3-large" {
		req.Dimensions = c.dims
	}
	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrEmbeddingOrder)
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || out[d.Index] != nil {
			return nil, fmt.Errorf("embeddings: bad response index %d: %w", d.Index, domain.ErrEmbeddingOrder)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if len(v) != len(out[0]) {
			return nil, fmt.Errorf("embeddings: vector %d has %d dims, want %d: %w",
				i, len(v), len(out[0]), domain.ErrEmbeddingOrder)
		}
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (c *Client) Dimensions() int { return c.dims }

// ModelName returns the embedding model in use.
func (c *Client) ModelName() string { return c.model }

// classify maps transport and auth/rate-limit failures to
// ErrCollaboratorUnavailable; other API errors pass through as per-file
// failures.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized,
			apiErr.HTTPStatusCode == http.StatusForbidden,
			apiErr.HTTPStatusCode == http.StatusTooManyRequests,
			apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("openai: %v: %w", err, domain.ErrCollaboratorUnavailable)
		default:
			return fmt.Errorf("openai: %w", err)
		}
	}
	return fmt.Errorf("openai: %v: %w", err, domain.ErrCollaboratorUnavailable)
}
