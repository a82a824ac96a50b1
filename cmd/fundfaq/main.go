package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fundfaq/internal/app"
	"fundfaq/internal/config"
	"fundfaq/internal/server"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/fundfaq/config.yaml if not provided)")
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

	components, err := app.Build(cfg)
	if err != nil {
		slog.Error("failed to assemble query engine", "error", err)
		os.Exit(1)
	}
	slog.Info("query engine ready",
		"documents", components.Store.Len(),
		"embedder", components.Embedder.Name(),
		"mode", components.Mode,
	)

	srv := server.New(components.Engine, server.Health{
		Status:    "healthy",
		Service:   "Mutual Fund FAQ Chatbot",
		Documents: components.Store.Len(),
		Embedder:  components.Embedder.Name(),
		Mode:      components.Mode,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
