// Package config loads and saves the application's YAML configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docrag/internal/batch"
	"docrag/internal/retrieve"
	"docrag/internal/segment"
)

// SegmenterConfig configures how files are split into units.
type SegmenterConfig struct {
	// Mode is "paragraph" (split .txt on blank lines) or "line".
	Mode     string `yaml:"mode"`
	MinChars int    `yaml:"min_chars"`
	MaxChars int    `yaml:"max_chars"`
}

// BatcherConfig bounds the size of one embedding call.
type BatcherConfig struct {
	MaxChars int `yaml:"max_chars"`
}

// OpenAIConfig holds settings shared by the embeddings client and the
// answer generator.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Dimensions  int    `yaml:"dimensions"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	// Type is "local" or "qdrant".
	Type string `yaml:"type"`
	// PersistDir backs the local store; empty means in-memory only.
	PersistDir string        `yaml:"persist_dir"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetrieveConfig configures the query path.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// AnswerConfig configures the answer generator.
type AnswerConfig struct {
	Model        string  `yaml:"model"`
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float32 `yaml:"temperature"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Batcher   BatcherConfig   `yaml:"batcher"`
	Embedder  OpenAIConfig    `yaml:"embedder"`
	Store     StoreConfig     `yaml:"store"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Answer    AnswerConfig    `yaml:"answer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/docrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Segmenter.Mode == "" {
		cfg.Segmenter.Mode = string(segment.ModeParagraph)
	}
	if cfg.Segmenter.MinChars == 0 {
		cfg.Segmenter.MinChars = segment.MinUnitChars
	}
	if cfg.Segmenter.MaxChars == 0 {
		cfg.Segmenter.MaxChars = segment.MaxUnitChars
	}
	if cfg.Batcher.MaxChars == 0 {
		cfg.Batcher.MaxChars = batch.DefaultMaxChars
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 60
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "local"
	}
	if cfg.Retrieve.TopK == 0 {
		cfg.Retrieve.TopK = retrieve.DefaultTopK
	}
	if cfg.Answer.Model == "" {
		cfg.Answer.Model = "gpt-4o"
	}
	if cfg.Answer.Temperature == 0 {
		cfg.Answer.Temperature = 0.7
	}
}
