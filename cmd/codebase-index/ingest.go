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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/HelixDB/codebase-index/internal/errors"
	"github.com/HelixDB/codebase-index/internal/output"
	"github.com/HelixDB/codebase-index/internal/ui"
	"github.com/HelixDB/codebase-index/pkg/helix"
	"github.com/HelixDB/codebase-index/pkg/ingestion"
)

// runIngest executes the 'ingest' CLI command, walking a source tree and
// persisting its graph representation in HelixDB.
//
// The root path is the first positional argument; it defaults to the
// current directory. Ignore files are honored at every level, files with a
// registered Tree-sitter grammar become file nodes with full syntax-tree
// entities, and top-level entities get chunk embeddings for semantic search.
//
// Flags:
//   - --helix-url: HelixDB base URL (overrides configuration)
//   - --embedding-provider: Embedding backend (mock, ollama, openai)
//   - --debug: Enable debug logging (default: false)
//   - --metrics-addr: HTTP address for Prometheus metrics (default: disabled)
//   - -q/--quiet: Suppress the progress bar
//   - --no-color: Disable colored output
//   - --json: Emit the run summary as JSON instead of the human report
//
// Examples:
//
//	codebase-index ingest                     Ingest the current directory
//	codebase-index ingest ./my-repo           Ingest a specific directory
//	codebase-index ingest --embedding-provider ollama
func runIngest(args []string, configPath string) {
	fs := pflag.NewFlagSet("ingest", pflag.ExitOnError)
	helixURL := fs.String("helix-url", "", "HelixDB base URL (overrides configuration)")
	embeddingProvider := fs.String("embedding-provider", "", "Embedding provider: mock, ollama, openai (overrides configuration)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	quiet := fs.BoolP("quiet", "q", false, "Suppress the progress bar")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	jsonOut := fs.Bool("json", false, "Output the run summary as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codebase-index ingest [path] [options]

Ingests a source tree into HelixDB using configuration from
.helix-index/project.yaml. The path defaults to the current directory.

Options:
%s`, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	// Load configuration
	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot load project configuration",
			err.Error(),
			"Run 'codebase-index init' to regenerate it",
			err,
		), *jsonOut)
	}
	if *helixURL != "" {
		cfg.HelixURL = *helixURL
	}
	if *embeddingProvider != "" {
		cfg.Embedding.Provider = *embeddingProvider
	}

	ui.InitColors(*noColor)

	// Setup logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Start Prometheus metrics endpoint (optional)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
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

	// Root path: first positional argument, default current directory
	rootPath := "."
	if fs.NArg() > 0 {
		rootPath = fs.Arg(0)
	}
	info, err := os.Stat(rootPath)
	if err != nil || !info.IsDir() {
		errors.FatalError(errors.NewInputError(
			"Invalid ingestion root",
			fmt.Sprintf("%s is not a readable directory", rootPath),
			"Pass a directory, e.g.: codebase-index ingest ./my-repo",
		), *jsonOut)
	}

	embedder, err := ingestion.CreateEmbeddingProvider(cfg.Embedding.Provider, logger)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot create embedding provider",
			err.Error(),
			"Set embedding.provider to mock, ollama, or openai",
			err,
		), *jsonOut)
	}

	client := helix.NewClient(cfg.HelixURL, logger)
	pipe, err := ingestion.NewPipeline(ingestion.Config{
		Store:      client,
		Chunker:    ingestion.FixedChunker{Size: cfg.Ingestion.ChunkSize},
		Embedder:   embedder,
		IgnoreFile: cfg.Ingestion.IgnoreFile,
	}, logger)
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot create ingestion pipeline",
			err.Error(),
			"This is a bug. Please report it at github.com/HelixDB/codebase-index/issues",
			err,
		), *jsonOut)
	}

	// Indeterminate spinner: the tree size is unknown until walked.
	progressCfg := NewProgressConfig(GlobalFlags{Quiet: *quiet, NoColor: *noColor})
	spinner := NewSpinner(progressCfg, "ingesting")
	if spinner != nil {
		pipe.Progress = func(kind, name string) {
			_ = spinner.Add(1)
		}
	}

	logger.Info("ingest.config",
		"helix_url", cfg.HelixURL,
		"embedding_provider", cfg.Embedding.Provider,
		"chunk_size", cfg.Ingestion.ChunkSize,
		"root", rootPath,
	)

	res, err := pipe.Ingest(ctx, rootPath)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if err != nil {
		errors.FatalError(errors.NewGraphError(
			"Ingestion failed",
			err.Error(),
			fmt.Sprintf("Check that HelixDB is reachable at %s", cfg.HelixURL),
			err,
		), *jsonOut)
	}

	if *jsonOut {
		if err := output.JSON(res); err != nil {
			_ = output.JSONError(err)
			os.Exit(errors.ExitInternal)
		}
		return
	}
	printIngestResult(res)
}

// printIngestResult writes the run summary, ending with the timing line.
func printIngestResult(res *ingestion.Result) {
	ui.Header("Ingestion Summary")
	fmt.Printf("%s %s (%s)\n", ui.Label("Root:"), res.RootPath, ui.DimText(res.RootID))
	fmt.Printf("%s %s\n", ui.Label("Folders:"), ui.CountText(res.Folders))
	fmt.Printf("%s %s\n", ui.Label("Files:"), ui.CountText(res.Files))
	fmt.Printf("%s %s\n", ui.Label("Entities:"), ui.CountText(res.Entities))
	fmt.Printf("%s %s\n", ui.Label("Embeddings:"), ui.CountText(res.Embeddings))
	if res.SkippedFiles > 0 {
		ui.Warningf("Skipped %d files without a registered grammar or matching an ignore rule", res.SkippedFiles)
	}
	if res.ParseFailures > 0 {
		ui.Warningf("%d files failed to parse and were left out of the graph", res.ParseFailures)
	}
	ui.Successf("Ingested in %s", res.Duration.Round(time.Millisecond))
}
