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

// Package main implements the codebase-index CLI for ingesting source trees
// into HelixDB and serving the query gateway.
//
// Usage:
//
//	codebase-index init             Create .helix-index/project.yaml configuration
//	codebase-index ingest [path]    Ingest a source tree (default: current directory)
//	codebase-index serve            Serve the query gateway (HTTP and/or MCP)
package main

import (
	"flag"
	"fmt"
	"os"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// main is the entry point for the codebase-index CLI.
//
// It parses global flags and dispatches to command handlers.
//
// Global flags:
//   - --version: Display version information and exit
//   - --config: Path to .helix-index/project.yaml configuration file
//
// Commands:
//   - init: Create .helix-index/project.yaml configuration
//   - ingest: Ingest a source tree into HelixDB
//   - serve: Serve the query gateway over HTTP and/or MCP
//   - version: Show version information
func main() {
	// Global flags
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to .helix-index/project.yaml (default: ./.helix-index/project.yaml)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `codebase-index - source tree ingestion for HelixDB

codebase-index walks a source tree, parses files with Tree-sitter, and
mirrors the result as a hierarchical graph in HelixDB: folders, files,
and syntax entities, with vector embeddings for semantic code search.
The serve command exposes the graph to agents through a validated
query gateway, over plain HTTP and the Model Context Protocol.

Usage:
  codebase-index <command> [options]

Commands:
  init      Create .helix-index/project.yaml configuration
  ingest    Ingest a source tree into HelixDB
  serve     Serve the query gateway (HTTP and/or MCP)
  version   Show version information

Global Options:
  --config      Path to .helix-index/project.yaml
  --version     Show version and exit

Examples:
  codebase-index init                     Create configuration with defaults
  codebase-index ingest                   Ingest the current directory
  codebase-index ingest ./my-repo         Ingest a specific directory
  codebase-index ingest --debug           Ingest with debug logging
  codebase-index serve                    Serve HTTP gateway on :8080
  codebase-index serve --mcp              Serve MCP over stdio instead

Getting Started:
  1. Deploy HelixDB with the shipped queries:  helix deploy (in helixdb-cfg/)
  2. Initialize configuration:                 codebase-index init
  3. Ingest your repository:                   codebase-index ingest
  4. Serve the gateway:                        codebase-index serve

Environment Variables:
  OLLAMA_HOST          Ollama URL (default: http://localhost:11434)
  OLLAMA_EMBED_MODEL   Embedding model (default: nomic-embed-text)
  OPENAI_API_KEY       API key for the openai embedding provider

For detailed command help: codebase-index <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("codebase-index version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs)
	case "ingest":
		runIngest(cmdArgs, *configPath)
	case "serve":
		runServe(cmdArgs, *configPath)
	case "version":
		fmt.Printf("codebase-index version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
