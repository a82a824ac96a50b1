package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible
// embeddings endpoint. BaseURL may point at any compatible provider
// (OpenAI, SiliconFlow, Ollama, ...).
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// StoreConfig locates the index artifact and the document store file.
type StoreConfig struct {
	IndexPath     string `yaml:"index_path"`
	DocumentsPath string `yaml:"documents_path"`
}

// RetrieverConfig configures retrieval behaviour.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// ComposerConfig selects the answer composition strategy.
// Threshold is the minimum cosine similarity an extractive answer
// must clear; zero means the default.
type ComposerConfig struct {
	Mode      string  `yaml:"mode"`
	Threshold float32 `yaml:"threshold"`
}

// GeneratorConfig configures the optional generative collaborator.
type GeneratorConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// ServerConfig configures the HTTP service layer.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig   `yaml:"embedder"`
	Store     StoreConfig      `yaml:"store"`
	Retriever RetrieverConfig  `yaml:"retriever"`
	Composer  ComposerConfig   `yaml:"composer"`
	Generator *GeneratorConfig `yaml:"generator,omitempty"`
	Server    ServerConfig     `yaml:"server"`
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

// LoadDefault tries ./config.yaml first, then ~/.config/fundfaq/config.yaml.
// If neither exists, it writes defaults to ~/.config/fundfaq/config.yaml and returns them.
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
	return filepath.Join(home, ".config", "fundfaq", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "tfidf"},
		Store:     StoreConfig{IndexPath: "vector_store/index.json", DocumentsPath: "vector_store/documents.json"},
		Retriever: RetrieverConfig{TopK: 3},
		Composer:  ComposerConfig{Mode: "extractive", Threshold: 0.3},
		Server:    ServerConfig{Addr: ":5000"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Store.IndexPath == "" {
		cfg.Store.IndexPath = "vector_store/index.json"
	}
	if cfg.Store.DocumentsPath == "" {
		cfg.Store.DocumentsPath = "vector_store/documents.json"
	}
	if cfg.Retriever.TopK <= 0 {
		cfg.Retriever.TopK = 3
	}
	if cfg.Composer.Mode == "" {
		cfg.Composer.Mode = "extractive"
	}
	if cfg.Composer.Threshold == 0 {
		cfg.Composer.Threshold = 0.3
	}
	if cfg.Generator != nil {
		if cfg.Generator.APIKeyEnv == "" {
			cfg.Generator.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Generator.Model == "" {
			cfg.Generator.Model = "gpt-4o-mini"
		}
		if cfg.Generator.MaxTokens == 0 {
			cfg.Generator.MaxTokens = 1024
		}
		if cfg.Generator.TimeoutSecs == 0 {
			cfg.Generator.TimeoutSecs = 15
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
}
