package answer

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

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o"

// Generator produces free text from a system instruction and a user
// prompt. The generation itself is an external collaborator.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeneratorConfig configures the OpenAI chat generator.
type GeneratorConfig struct {
	// APIKeyEnv names the env var holding the key. Default OPENAI_API_KEY.
	APIKeyEnv   string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// OpenAIGenerator answers via the chat completions API.
type OpenAIGenerator struct {
	api         *openai.Client
	model       string
	temperature float32
}

func NewOpenAIGenerator(cfg GeneratorConfig) (*OpenAIGenerator, error) {
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
		cfg.Timeout = 120 * time.Second
	}
	occ := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		occ.BaseURL = cfg.BaseURL
	}
	occ.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAIGenerator{
		api:         openai.NewClientWithConfig(occ),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode < 500 &&
			apiErr.HTTPStatusCode != http.StatusUnauthorized &&
			apiErr.HTTPStatusCode != http.StatusTooManyRequests {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		return "", fmt.Errorf("chat completion: %v: %w", err, domain.ErrCollaboratorUnavailable)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
