// Copyright 2025 HelixDB
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/HelixDB/codebase-index/internal/errors"
	"github.com/HelixDB/codebase-index/pkg/gateway"
	"github.com/HelixDB/codebase-index/pkg/helix"
	"github.com/HelixDB/codebase-index/pkg/ingestion"
)

// runServe executes the 'serve' CLI command: the validated query gateway
// over plain HTTP, or over the Model Context Protocol with --mcp.
//
// The gateway loads query signatures from the configured queries.hx file
// and rejects anything off the allow-list before it reaches HelixDB. The
// embedding provider must match the one used at ingestion time or semantic
// search will return noise.
//
// Flags:
//   - --addr: HTTP listen address (default from configuration)
//   - --mcp: Serve MCP over stdio instead of HTTP
//   - --mcp-addr: Serve MCP over streamable HTTP on this address
//   - --queries: Path to the HelixDB queries file (overrides configuration)
//   - --debug: Enable debug logging
//
// Examples:
//
//	codebase-index serve                      HTTP gateway on the configured address
//	codebase-index serve --addr :9090         HTTP gateway on :9090
//	codebase-index serve --mcp                MCP over stdio (for agent clients)
//	codebase-index serve --mcp-addr :8081     MCP over streamable HTTP
func runServe(args []string, configPath string) {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	addr := fs.String("addr", "", "HTTP listen address (overrides configuration)")
	mcpStdio := fs.Bool("mcp", false, "Serve MCP over stdio instead of HTTP")
	mcpAddr := fs.String("mcp-addr", "", "Serve MCP over streamable HTTP on this address")
	queriesFile := fs.String("queries", "", "Path to the HelixDB queries file (overrides configuration)")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codebase-index serve [options]

Serves the query gateway using configuration from .helix-index/project.yaml.

Options:
%s`, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	// Provider credentials (OPENAI_API_KEY etc.) may live in a local .env.
	_ = godotenv.Load()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot load project configuration",
			err.Error(),
			"Run 'codebase-index init' to regenerate it",
			err,
		), false)
	}
	if *addr != "" {
		cfg.Gateway.Addr = *addr
	}
	if *queriesFile != "" {
		cfg.Gateway.QueriesFile = *queriesFile
	}

	// Setup logging. MCP over stdio owns stdout, so logs go to stderr.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logWriter := os.Stdout
	if *mcpStdio {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	schemas, err := gateway.LoadSchemas(cfg.Gateway.QueriesFile)
	if err != nil {
		errors.FatalError(errors.NewNotFoundError(
			"Queries file not found or empty",
			err.Error(),
			"Point --queries at your HelixDB queries file",
		), false)
	}

	embedder, err := ingestion.CreateEmbeddingProvider(cfg.Embedding.Provider, logger)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot create embedding provider",
			err.Error(),
			"Set embedding.provider to mock, ollama, or openai",
			err,
		), false)
	}

	client := helix.NewClient(cfg.HelixURL, logger)
	gw, err := gateway.New(client, embedder, schemas, logger)
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot create gateway",
			err.Error(),
			"This is a bug. Please report it at github.com/HelixDB/codebase-index/issues",
			err,
		), false)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	logger.Info("serve.config",
		"helix_url", cfg.HelixURL,
		"queries_file", cfg.Gateway.QueriesFile,
		"queries", len(schemas),
		"embedding_provider", cfg.Embedding.Provider,
	)

	switch {
	case *mcpStdio:
		err = gateway.NewMCPServer(gw, version).Run(ctx)
	case *mcpAddr != "":
		err = gateway.NewMCPServer(gw, version).RunHTTP(ctx, *mcpAddr)
	default:
		err = gateway.NewServer(gw, cfg.Gateway.Addr, logger).Run(ctx)
	}
	if err != nil {
		errors.FatalError(errors.NewNetworkError(
			"Gateway stopped unexpectedly",
			err.Error(),
			"Check that the listen address is free and try again",
			err,
		), false)
	}
}
