package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"prodtrack/internal/adapters/lsp"
	"prodtrack/internal/app"
	"prodtrack/internal/config"
)

const version = "0.1.0"

func main() {
	logLevel := flag.String("log-level", config.DefaultLogLevel, "log level before the workspace config is read (debug, info, warn, error)")
	flag.Parse()

	// stdout carries the protocol
	logger := config.NewLogger(*logLevel, os.Stderr)

	load := func(workspace string) (*app.App, error) {
		cfg, err := config.Load(workspace)
		if err != nil {
			return nil, err
		}
		return app.New(cfg, config.NewLogger(cfg.LogLevel, os.Stderr)), nil
	}

	srv := lsp.NewServer("prodtrack-lsp", version, load, logger)
	err := srv.RunStdio()

	// The client may exit without sending shutdown
	if derr := srv.Deactivate(context.Background()); derr != nil {
		logger.Error("final flush failed", "error", derr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "prodtrack-lsp: %v\n", err)
		os.Exit(1)
	}
}
