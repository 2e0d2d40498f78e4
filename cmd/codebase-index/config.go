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
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/HelixDB/codebase-index/pkg/gateway"
	"github.com/HelixDB/codebase-index/pkg/helix"
	"github.com/HelixDB/codebase-index/pkg/ignore"
	"github.com/HelixDB/codebase-index/pkg/ingestion"
)

// Config is the project configuration stored in .helix-index/project.yaml.
type Config struct {
	// HelixURL is the base URL of the HelixDB instance.
	HelixURL string `yaml:"helix_url"`

	Gateway struct {
		// Addr is the gateway's HTTP listen address.
		Addr string `yaml:"addr"`
		// QueriesFile is the path to the HelixDB queries file the
		// gateway validates against.
		QueriesFile string `yaml:"queries_file"`
	} `yaml:"gateway"`

	Embedding struct {
		// Provider selects the embedding backend (mock, ollama, openai).
		Provider string `yaml:"provider"`
		// Dimensions is the vector width; it must match the vector
		// type declared in the HelixDB schema.
		Dimensions int `yaml:"dimensions"`
	} `yaml:"embedding"`

	Ingestion struct {
		// IgnoreFile is the per-directory ignore file name.
		IgnoreFile string `yaml:"ignore_file"`
		// ChunkSize is the embedding chunk width in bytes.
		ChunkSize int `yaml:"chunk_size"`
	} `yaml:"ingestion"`
}

// ConfigDir returns the project configuration directory under root.
func ConfigDir(root string) string {
	return filepath.Join(root, ".helix-index")
}

// ConfigPath returns the configuration file path under root.
func ConfigPath(root string) string {
	return filepath.Join(ConfigDir(root), "project.yaml")
}

// DefaultConfig returns a configuration with all defaults filled in.
func DefaultConfig() *Config {
	cfg := &Config{HelixURL: helix.DefaultBaseURL}
	cfg.Gateway.Addr = gateway.DefaultAddr
	cfg.Gateway.QueriesFile = filepath.Join("helixdb-cfg", "queries.hx")
	cfg.Embedding.Provider = "mock"
	cfg.Embedding.Dimensions = ingestion.DefaultEmbeddingDimensions
	cfg.Ingestion.IgnoreFile = ignore.DefaultFileName
	cfg.Ingestion.ChunkSize = ingestion.DefaultChunkSize
	return cfg
}

// LoadConfig reads the configuration at path, or the one in the current
// directory when path is empty. A missing file is not an error: defaults
// are returned so every command works in an uninitialized project.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get current directory: %w", err)
		}
		path = ConfigPath(cwd)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to ConfigPath(root), creating the configuration
// directory if needed.
func SaveConfig(root string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(root), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
