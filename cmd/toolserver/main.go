// Package main provides the entry point for the business tool server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/craftally/agent/internal/config"
	"github.com/craftally/agent/internal/llm"
	"github.com/craftally/agent/internal/server"
	"github.com/craftally/agent/internal/tools"
)

const version = "0.1.0"

func main() {
	var stdio bool

	root := &cobra.Command{
		Use:   "toolserver",
		Short: "MCP server exposing the business tool suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(stdio)
		},
	}
	root.Flags().BoolVar(&stdio, "stdio", false, "serve over stdio instead of SSE")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(stdio bool) error {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("tool server starting",
		"version", version,
		"addr", cfg.ToolServerAddr,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	model, err := llm.NewModel(cfg)
	if err != nil {
		logger.Error("failed to create model", "error", err)
		return err
	}
	logger.Info("model initialized", "model", model.Model())

	srv := server.New(version, logger)
	srv.Setup()

	deps := &tools.Dependencies{
		Model:  model,
		Logger: logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered")

	logger.Info("server ready, awaiting connections")

	if stdio {
		err = srv.RunStdio(ctx)
	} else {
		err = srv.RunSSE(ctx, cfg.ToolServerAddr)
	}
	if err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
