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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelixDB/codebase-index/pkg/helix"
	"github.com/HelixDB/codebase-index/pkg/ingestion"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, helix.DefaultBaseURL, cfg.HelixURL)
	assert.Equal(t, "mock", cfg.Embedding.Provider)
	assert.Equal(t, ingestion.DefaultEmbeddingDimensions, cfg.Embedding.Dimensions)
	assert.Equal(t, ingestion.DefaultChunkSize, cfg.Ingestion.ChunkSize)
	assert.Equal(t, ".gitignore", cfg.Ingestion.IgnoreFile)
	assert.NotEmpty(t, cfg.Gateway.Addr)
	assert.NotEmpty(t, cfg.Gateway.QueriesFile)
}

func TestSaveAndLoadConfig(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.HelixURL = "http://helix.internal:6969"
	cfg.Embedding.Provider = "ollama"
	cfg.Ingestion.ChunkSize = 100
	require.NoError(t, SaveConfig(root, cfg))

	loaded, err := LoadConfig(ConfigPath(root))
	require.NoError(t, err)
	assert.Equal(t, "http://helix.internal:6969", loaded.HelixURL)
	assert.Equal(t, "ollama", loaded.Embedding.Provider)
	assert.Equal(t, 100, loaded.Ingestion.ChunkSize)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".helix-index", "project.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(root), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(root), []byte("helix_url: http://other:7000\n"), 0o644))

	cfg, err := LoadConfig(ConfigPath(root))
	require.NoError(t, err)
	assert.Equal(t, "http://other:7000", cfg.HelixURL)
	// Unset fields keep their defaults.
	assert.Equal(t, "mock", cfg.Embedding.Provider)
	assert.Equal(t, ingestion.DefaultChunkSize, cfg.Ingestion.ChunkSize)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(root), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(root), []byte("helix_url: [not: valid\n"), 0o644))

	_, err := LoadConfig(ConfigPath(root))
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", ".helix-index", "project.yaml"), ConfigPath("/repo"))
}
