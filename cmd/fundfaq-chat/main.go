package main

import (
	"flag"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"fundfaq/internal/app"
	"fundfaq/internal/config"
	"fundfaq/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
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

	m := tui.New(components.Engine)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		slog.Error("chat client exited", "error", err)
		os.Exit(1)
	}
}
