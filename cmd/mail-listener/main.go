package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"restocompras/internal/backend"
	"restocompras/internal/config"
	"restocompras/internal/listener"
	"restocompras/internal/pipeline"
	"restocompras/internal/storage"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := backend.NewClient(cfg, log)
	must(client.Login(ctx))

	resolver := pipeline.NewResolver(client, client, log)
	processor := pipeline.NewProcessingService(cfg, db, resolver, log)
	svc := listener.NewService(cfg, db, processor, log)

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
