package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fundfaq/internal/app"
	"fundfaq/internal/config"
	"fundfaq/internal/docstore"
	"fundfaq/internal/domain"
	"fundfaq/internal/embedding/tfidf"
	"fundfaq/internal/ingest"
	"fundfaq/internal/vectorindex"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, schemesDir, guidesDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.StringVar(&schemesDir, "schemes", "data/schemes", "Directory of scraped scheme JSON payloads")
	flag.StringVar(&guidesDir, "guides", "data/guides", "Directory of scraped guide JSON payloads")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	records, err := ingest.LoadDir(schemesDir, guidesDir)
	if err != nil {
		slog.Error("failed to load scraped payloads", "error", err)
		os.Exit(1)
	}
	slog.Info("records collected", "count", len(records))

	if err := build(cfg, records); err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	slog.Info("index written",
		"index", cfg.Store.IndexPath,
		"documents", cfg.Store.DocumentsPath,
		"records", len(records),
	)
}

func build(cfg *config.AppConfig, records []domain.Record) error {
	ctx := context.Background()
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	var embedder domain.Embedder
	var trained *tfidf.Embedder
	if cfg.Embedder.Type == "tfidf" || cfg.Embedder.Type == "" {
		var err error
		trained, err = tfidf.Train(texts)
		if err != nil {
			return err
		}
		embedder = trained
	} else {
		var err error
		embedder, err = app.NewEmbedder(cfg, nil)
		if err != nil {
			return err
		}
	}

	vectors := make([][]float32, len(records))
	for i, r := range records {
		vec, err := embedder.Embed(ctx, r.Text)
		if err != nil {
			return err
		}
		vectors[i] = vec
	}

	builder, err := vectorindex.NewBuilder(embedder.Name(), len(vectors[0]))
	if err != nil {
		return err
	}
	for i, r := range records {
		if err := builder.Add(r.ID, vectors[i]); err != nil {
			return err
		}
	}
	if trained != nil {
		state, err := trained.State()
		if err != nil {
			return err
		}
		builder.SetEmbedderState(state)
	}

	if err := builder.Save(cfg.Store.IndexPath); err != nil {
		return err
	}
	return docstore.Save(cfg.Store.DocumentsPath, records)
}
