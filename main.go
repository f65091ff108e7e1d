package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/firestore-mcp/firestore-mcp-server/internal/app"
	"github.com/firestore-mcp/firestore-mcp-server/internal/config"
	"github.com/firestore-mcp/firestore-mcp-server/internal/logging"
	"github.com/firestore-mcp/firestore-mcp-server/internal/version"
)

func main() {
	envFiles, envErr := config.LoadDotEnv(config.DefaultEnvDirs()...)

	// Flags / env
	cfg := config.FromEnv()
	flag.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "MCP HTTP listen address when -transport=http (e.g., :3333)")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Document backend: firestore or memory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file instead of stderr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	logger, cleanup, err := logging.New("firestore-mcp", logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		logger.WithError(envErr).Error("load .env")
		cleanup()
		os.Exit(1)
	}
	for _, f := range envFiles {
		logger.WithField("file", f).Debug("loaded environment file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, cfg, logger, os.Stdin, os.Stdout)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("Fatal error")
		cleanup()
		os.Exit(1)
	}
	cleanup()
}
