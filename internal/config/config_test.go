package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "paragraph", cfg.Segmenter.Mode)
	assert.Equal(t, 20, cfg.Segmenter.MinChars)
	assert.Equal(t, 8000, cfg.Segmenter.MaxChars)
	assert.Equal(t, 600000, cfg.Batcher.MaxChars)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, "local", cfg.Store.Type)
	assert.Equal(t, 5, cfg.Retrieve.TopK)
	assert.Equal(t, "gpt-4o", cfg.Answer.Model)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segmenter:\n  mode: line\nretrieve:\n  top_k: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Segmenter.Mode)
	assert.Equal(t, 3, cfg.Retrieve.TopK)
	assert.Equal(t, 600000, cfg.Batcher.MaxChars)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.APIKeyEnv)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Store.Type = "qdrant"
	cfg.Store.Qdrant = &QdrantConfig{URL: "http://localhost:6333"}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segmenter: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
