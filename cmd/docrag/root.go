package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docrag/internal/config"
	"docrag/internal/domain"
	"docrag/internal/embedding/openai"
	"docrag/internal/vectorstore/local"
	"docrag/internal/vectorstore/qdrant"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Ingest document folders and answer questions against them",
	Long: `docrag splits text and CSV documents into units, embeds them, and
persists the vectors in a named collection. Questions are answered by
retrieving the most similar units and handing them to a chat model.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml, then ~/.config/docrag/config.yaml)")
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func buildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	return openai.NewClient(openai.Config{
		APIKeyEnv:  cfg.Embedder.APIKeyEnv,
		BaseURL:    cfg.Embedder.BaseURL,
		Model:      cfg.Embedder.Model,
		Timeout:    time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		Dimensions: cfg.Embedder.Dimensions,
	})
}

func buildStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.Store.Type {
	case "local", "":
		return local.NewStore(cfg.Store.PersistDir)
	case "qdrant":
		if cfg.Store.Qdrant == nil {
			return nil, fmt.Errorf("qdrant store config missing: %w", domain.ErrInvalidConfig)
		}
		return qdrant.NewStore(qdrant.Config{
			URL:     cfg.Store.Qdrant.URL,
			APIKey:  cfg.Store.Qdrant.APIKey,
			Timeout: time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store type %q: %w", cfg.Store.Type, domain.ErrInvalidConfig)
	}
}
