// Package app assembles the query engine from configuration. The
// loaded index, store and embedder are immutable for the process
// lifetime; a rebuild requires a restart.
package app

import (
	"time"

	"github.com/pkg/errors"

	"fundfaq/internal/composer"
	"fundfaq/internal/config"
	"fundfaq/internal/docstore"
	"fundfaq/internal/domain"
	"fundfaq/internal/embedding/openai"
	"fundfaq/internal/embedding/tfidf"
	"fundfaq/internal/engine"
	"fundfaq/internal/llm"
	"fundfaq/internal/retriever"
	"fundfaq/internal/vectorindex"
)

// Components holds the assembled engine and the loaded collaborators
// it serves from.
type Components struct {
	Engine   *engine.Engine
	Store    *docstore.Store
	Index    *vectorindex.Index
	Embedder domain.Embedder
	Mode     string
}

// Build loads the index and document store artifacts, reconstructs the
// embedder the index was built with, validates that they agree, and
// wires the engine.
func Build(cfg *config.AppConfig) (*Components, error) {
	index, err := vectorindex.Load(cfg.Store.IndexPath)
	if err != nil {
		return nil, errors.Wrap(err, "load vector index")
	}
	store, err := docstore.Load(cfg.Store.DocumentsPath)
	if err != nil {
		return nil, errors.Wrap(err, "load document store")
	}
	embedder, err := NewEmbedder(cfg, index)
	if err != nil {
		return nil, err
	}
	if err := index.ValidateEmbedder(embedder); err != nil {
		return nil, err
	}

	retr, err := retriever.New(embedder, index, store)
	if err != nil {
		return nil, err
	}

	var generator domain.Generator
	if cfg.Composer.Mode == composer.ModeGenerative {
		if cfg.Generator == nil {
			return nil, errors.New("generative mode requires a generator section in config")
		}
		generator, err = llm.NewClient(llm.Config{
			BaseURL:     cfg.Generator.BaseURL,
			APIKeyEnv:   cfg.Generator.APIKeyEnv,
			Model:       cfg.Generator.Model,
			MaxTokens:   cfg.Generator.MaxTokens,
			Temperature: cfg.Generator.Temperature,
			Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, errors.Wrap(err, "init generator")
		}
	}
	comp, err := composer.New(cfg.Composer.Mode, cfg.Composer.Threshold, generator)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(retr, comp, cfg.Retriever.TopK)
	if err != nil {
		return nil, err
	}
	return &Components{
		Engine:   eng,
		Store:    store,
		Index:    index,
		Embedder: embedder,
		Mode:     cfg.Composer.Mode,
	}, nil
}

// NewEmbedder constructs the configured embedder. For the local TF-IDF
// embedder the trained vocabulary is taken from the index artifact,
// which may be nil only when building a fresh index.
func NewEmbedder(cfg *config.AppConfig, index *vectorindex.Index) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		if index == nil {
			return nil, errors.New("tfidf embedder requires either an index or training")
		}
		return tfidf.NewFromState(index.EmbedderState())
	case "openai":
		ocfg := openai.Config{}
		if cfg.Embedder.OpenAI != nil {
			ocfg = openai.Config{
				BaseURL:    cfg.Embedder.OpenAI.BaseURL,
				APIKeyEnv:  cfg.Embedder.OpenAI.APIKeyEnv,
				Model:      cfg.Embedder.OpenAI.Model,
				Dimensions: cfg.Embedder.OpenAI.Dimensions,
				Timeout:    time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			}
		}
		return openai.NewClient(ocfg)
	default:
		return nil, errors.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}
