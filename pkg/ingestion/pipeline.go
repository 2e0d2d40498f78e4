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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/HelixDB/codebase-index/pkg/ignore"
)

// GraphStore is the narrow persistence surface the pipeline depends on.
// Every call is a network round-trip to HelixDB; a failure on any of them
// aborts the run. helix.Client is the production implementation.
type GraphStore interface {
	CreateRoot(ctx context.Context, name string) (string, error)
	CreateSuperFolder(ctx context.Context, rootID, name string) (string, error)
	CreateSubFolder(ctx context.Context, folderID, name string) (string, error)
	CreateSuperFile(ctx context.Context, rootID, name, text string) (string, error)
	CreateFile(ctx context.Context, folderID, name, text string) (string, error)
	CreateSuperEntity(ctx context.Context, fileID, entityType string, startByte, endByte, order int, text string) (string, error)
	CreateSubEntity(ctx context.Context, parentID, entityType string, startByte, endByte, order int, text string) (string, error)
	AttachEmbedding(ctx context.Context, entityID string, vector []float32) error
}

// scope identifies the current container during the recursive walk: nodes
// created directly under the Root get the super- variants.
type scope int

const (
	scopeRoot scope = iota
	scopeFolder
)

// Config assembles the pipeline's collaborators.
type Config struct {
	// Store persists graph nodes. Required.
	Store GraphStore

	// Grammars decides which files are parseable. Defaults to
	// DefaultGrammars().
	Grammars *GrammarRegistry

	// Chunker splits super-entity text before embedding. Defaults to
	// FixedChunker{DefaultChunkSize}.
	Chunker Chunker

	// Embedder vectorizes chunks. Defaults to the mock provider.
	Embedder EmbeddingProvider

	// IgnoreFile is the per-directory ignore-specification file name.
	// Defaults to ignore.DefaultFileName.
	IgnoreFile string
}

// Pipeline ingests a source tree into HelixDB: directories become folder
// nodes, parseable files become file nodes, and each file's syntax tree
// becomes a chain of entity nodes. The walk is single-threaded, depth-first,
// and creates every parent node before any of its children.
type Pipeline struct {
	store      GraphStore
	grammars   *GrammarRegistry
	chunker    Chunker
	embedder   EmbeddingProvider
	ignoreFile string
	logger     *slog.Logger

	// Progress, when set, is invoked once per created folder and file node.
	Progress func(kind, name string)
}

// Result summarizes one ingestion run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string `json:"run_id"`

	// RootID is the identifier HelixDB assigned to the Root node.
	RootID string `json:"root_id"`

	// RootPath is the absolute path that was ingested.
	RootPath string `json:"root_path"`

	// Node counts.
	Folders    int `json:"folders"`
	Files      int `json:"files"`
	Entities   int `json:"entities"`
	Embeddings int `json:"embeddings"`

	// SkippedFiles counts files with no registered grammar.
	SkippedFiles int `json:"skipped_files"`

	// ParseFailures counts files that a grammar refused.
	ParseFailures int `json:"parse_failures"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration_ns"`
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("graph store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Grammars == nil {
		cfg.Grammars = DefaultGrammars()
	}
	if cfg.Chunker == nil {
		cfg.Chunker = FixedChunker{Size: DefaultChunkSize}
	}
	if cfg.Embedder == nil {
		cfg.Embedder = NewMockEmbeddingProvider(DefaultEmbeddingDimensions)
	}
	if cfg.IgnoreFile == "" {
		cfg.IgnoreFile = ignore.DefaultFileName
	}

	return &Pipeline{
		store:      cfg.Store,
		grammars:   cfg.Grammars,
		chunker:    cfg.Chunker,
		embedder:   cfg.Embedder,
		ignoreFile: cfg.IgnoreFile,
		logger:     logger,
	}, nil
}

// Ingest walks rootPath and persists its graph representation. A run either
// completes or aborts on the first persistence or listing error; there is no
// partial-run resume and no cleanup of already-created nodes.
func (p *Pipeline) Ingest(ctx context.Context, rootPath string) (*Result, error) {
	start := time.Now()

	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", abs)
	}

	res := &Result{
		RunID:    uuid.NewString(),
		RootPath: abs,
	}
	p.logger.Info("ingest.start", "run_id", res.RunID, "root", abs)

	// Ignore rules from the root and all its ancestors apply from the
	// beginning; deeper ignore files are merged while descending.
	filter := ignore.Load(abs, p.ignoreFile, p.logger)

	rootID, err := p.store.CreateRoot(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("create root: %w", err)
	}
	res.RootID = rootID

	if err := p.populate(ctx, abs, scopeRoot, rootID, filter, res); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	observeIngestDuration(res.Duration)
	p.logger.Info("ingest.complete",
		"run_id", res.RunID,
		"folders", res.Folders,
		"files", res.Files,
		"entities", res.Entities,
		"embeddings", res.Embeddings,
		"skipped_files", res.SkippedFiles,
		"parse_failures", res.ParseFailures,
		"duration", res.Duration,
	)
	return res, nil
}

// populate creates the graph nodes for one directory's subtree. parentID is
// already persisted when populate is called, so children always reference an
// existing parent.
func (p *Pipeline) populate(ctx context.Context, dir string, sc scope, parentID string, filter *ignore.Filter, res *Result) error {
	// Merge this directory's ignore file for the current subtree only.
	filter = filter.Extend(dir)

	folders, files, err := ScanDirectory(dir, filter)
	if err != nil {
		return err
	}
	p.logger.Info("ingest.populate", "dir", dir, "folders", len(folders), "files", len(files))

	for _, name := range folders {
		var folderID string
		var err error
		if sc == scopeRoot {
			folderID, err = p.store.CreateSuperFolder(ctx, parentID, name)
		} else {
			folderID, err = p.store.CreateSubFolder(ctx, parentID, name)
		}
		if err != nil {
			return fmt.Errorf("create folder %s: %w", name, err)
		}
		res.Folders++
		recordFolderCreated()
		p.reportProgress("folder", name)

		if err := p.populate(ctx, filepath.Join(dir, name), scopeFolder, folderID, filter, res); err != nil {
			return err
		}
	}

	for _, name := range files {
		if err := p.ingestFile(ctx, dir, name, sc, parentID, res); err != nil {
			return err
		}
	}
	return nil
}

// ingestFile parses one file and persists its node chain. Unmatched
// extensions and parse failures are logged skips; persistence errors abort.
func (p *Pipeline) ingestFile(ctx context.Context, dir, name string, sc scope, parentID string, res *Result) error {
	grammar, ok := p.grammars.Lookup(name)
	if !ok {
		p.logger.Info("ingest.file.skip", "file", name, "reason", "no_grammar")
		res.SkippedFiles++
		recordFileSkipped()
		return nil
	}

	fullPath := filepath.Join(dir, name)
	source, err := os.ReadFile(fullPath)
	if err != nil {
		p.logger.Warn("ingest.file.parse_failure", "file", fullPath, "err", err)
		res.ParseFailures++
		recordParseFailure()
		return nil
	}

	tree, err := MapSource(ctx, grammar, source)
	if err != nil {
		p.logger.Warn("ingest.file.parse_failure", "file", fullPath, "grammar", grammar.Name, "err", err)
		res.ParseFailures++
		recordParseFailure()
		return nil
	}

	var fileID string
	if sc == scopeRoot {
		fileID, err = p.store.CreateSuperFile(ctx, parentID, name, tree.Text)
	} else {
		fileID, err = p.store.CreateFile(ctx, parentID, name, tree.Text)
	}
	if err != nil {
		return fmt.Errorf("create file %s: %w", name, err)
	}
	res.Files++
	recordFileCreated()
	p.reportProgress("file", name)

	p.logger.Info("ingest.file.entities", "file", name, "super_entities", len(tree.Children))
	for _, super := range tree.Children {
		superID, err := p.store.CreateSuperEntity(ctx, fileID, super.Type, super.StartByte, super.EndByte, super.Order, super.Text)
		if err != nil {
			return fmt.Errorf("create super entity %s: %w", super.Type, err)
		}
		res.Entities++
		recordEntityCreated()

		if err := p.embedEntity(ctx, superID, super.Text, res); err != nil {
			return err
		}
		if err := p.createSubEntities(ctx, superID, super.Children, res); err != nil {
			return err
		}
	}
	return nil
}

// embedEntity chunks a super-entity's text and attaches one embedding per
// chunk. Embeddings are attached only at the super-entity level.
func (p *Pipeline) embedEntity(ctx context.Context, entityID, text string, res *Result) error {
	for _, chunk := range p.chunker.Chunk(text) {
		vector, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk: %w", err)
		}
		if err := p.store.AttachEmbedding(ctx, entityID, vector); err != nil {
			return fmt.Errorf("attach embedding: %w", err)
		}
		res.Embeddings++
		recordEmbeddingAttached()
	}
	return nil
}

// createSubEntities mirrors a mapped subtree under parentID, depth-first,
// preserving sibling order.
func (p *Pipeline) createSubEntities(ctx context.Context, parentID string, children []*Entity, res *Result) error {
	for _, child := range children {
		id, err := p.store.CreateSubEntity(ctx, parentID, child.Type, child.StartByte, child.EndByte, child.Order, child.Text)
		if err != nil {
			return fmt.Errorf("create sub entity %s: %w", child.Type, err)
		}
		res.Entities++
		recordEntityCreated()

		if err := p.createSubEntities(ctx, id, child.Children, res); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) reportProgress(kind, name string) {
	if p.Progress != nil {
		p.Progress(kind, name)
	}
}
