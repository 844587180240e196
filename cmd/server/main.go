// Package main starts the Future Decisions decision service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tatianab/impact-games/internal/api"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetPrefix("[API] ")

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cat, log.Default())
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
