// Package main is the entry point for the gtodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gtodo/internal/cli"
	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/service"
	"gtodo/internal/taskstore"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Tasks live in the same key-value file as the session marker.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return taskstore.Open(ctx, cfg.OpenStore(), taskstore.WithLogger(cfg.Logger())), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
