package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/client"
	"github.com/tatianab/impact-games/internal/coach"
	"github.com/tatianab/impact-games/internal/config"
	"github.com/tatianab/impact-games/internal/export"
	"github.com/tatianab/impact-games/internal/store"
	"github.com/tatianab/impact-games/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		fmt.Printf("Error creating save directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := tea.LogToFile(filepath.Join(cfg.SaveDir, "game.log"), "game")
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.New(logFile, "[GAME] ", log.LstdFlags)

	cat, err := catalog.Default()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		fmt.Printf("Error opening profile: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ch, err := coach.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Printf("Error creating coach: %v\n", err)
		os.Exit(1)
	}
	defer ch.Close()

	deps := tui.Deps{
		Catalog:  cat,
		Store:    st,
		Coach:    ch,
		Exporter: export.New(cfg.SaveDir),
		Logger:   logger,
	}
	if cfg.Remote {
		deps.Remote = client.New(cfg.APIURL, cfg.RequestTimeout, cfg.RequestRetries, client.WithLogger(logger))
		if _, err := deps.Remote.Health(ctx); err != nil {
			logger.Printf("decision service at %s is not reachable, rounds will fold locally until it is: %v", cfg.APIURL, err)
		}
	}

	if err := tui.Run(deps); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
