package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "vector_store/index.json", cfg.Store.IndexPath)
	assert.Equal(t, "vector_store/documents.json", cfg.Store.DocumentsPath)
	assert.Equal(t, 3, cfg.Retriever.TopK)
	assert.Equal(t, "extractive", cfg.Composer.Mode)
	assert.InDelta(t, 0.3, float64(cfg.Composer.Threshold), 1e-6)
	assert.Equal(t, ":5000", cfg.Server.Addr)
}

func TestLoad_AppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
composer:
  mode: generative
generator:
  model: gpt-4o
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
	assert.Equal(t, "generative", cfg.Composer.Mode)
	assert.InDelta(t, 0.3, float64(cfg.Composer.Threshold), 1e-6)
	require.NotNil(t, cfg.Generator)
	assert.Equal(t, "gpt-4o", cfg.Generator.Model)
	assert.Equal(t, 15, cfg.Generator.TimeoutSecs)
	assert.Equal(t, 1024, cfg.Generator.MaxTokens)
	assert.Equal(t, 3, cfg.Retriever.TopK)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Retriever.TopK = 5
	cfg.Composer.Threshold = 0.45
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Retriever.TopK)
	assert.InDelta(t, 0.45, float64(loaded.Composer.Threshold), 1e-6)
}
