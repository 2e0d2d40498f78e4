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
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/HelixDB/codebase-index/internal/errors"
	"github.com/HelixDB/codebase-index/internal/ui"
)

// runInit executes the 'init' CLI command, creating a
// .helix-index/project.yaml configuration file with defaults.
//
// Flags:
//   - --force: Overwrite existing configuration (default: false)
//   - --helix-url: HelixDB base URL
//   - --embedding-provider: Embedding provider (mock, ollama, openai)
//   - --queries: Path to the HelixDB queries file
//
// Examples:
//
//	codebase-index init
//	codebase-index init --helix-url http://helix.internal:6969
//	codebase-index init --embedding-provider ollama
func runInit(args []string) {
	fs := pflag.NewFlagSet("init", pflag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")
	helixURL := fs.String("helix-url", "", "HelixDB base URL")
	embeddingProvider := fs.String("embedding-provider", "", "Embedding provider (mock, ollama, openai)")
	queriesFile := fs.String("queries", "", "Path to the HelixDB queries file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codebase-index init [options]

Creates .helix-index/project.yaml in the current directory.

Options:
%s`, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot get current directory",
			err.Error(),
			"",
			err,
		), false)
	}

	configPath := ConfigPath(cwd)
	if _, err := os.Stat(configPath); err == nil && !*force {
		errors.FatalError(errors.NewInputError(
			"Configuration already exists",
			fmt.Sprintf("%s is already present", configPath),
			"Use --force to overwrite it",
		), false)
	}

	cfg := DefaultConfig()
	if *helixURL != "" {
		cfg.HelixURL = *helixURL
	}
	if *embeddingProvider != "" {
		cfg.Embedding.Provider = *embeddingProvider
	}
	if *queriesFile != "" {
		cfg.Gateway.QueriesFile = *queriesFile
	}

	if err := SaveConfig(cwd, cfg); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot write project configuration",
			err.Error(),
			"Run with appropriate permissions or change the project directory",
			err,
		), false)
	}

	ui.Successf("Created %s", configPath)
	fmt.Println()
	ui.SubHeader("Next steps:")
	fmt.Println("  1. Deploy HelixDB with the shipped queries:  helix deploy (in helixdb-cfg/)")
	fmt.Println("  2. Ingest your repository:                   codebase-index ingest")
	fmt.Println("  3. Serve the gateway:                        codebase-index serve")
}
