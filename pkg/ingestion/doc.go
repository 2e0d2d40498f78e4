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

// Package ingestion turns a source tree into a hierarchical graph in HelixDB.
//
// The pipeline walks a directory tree depth-first, honoring per-directory
// ignore files, and mirrors what it finds as graph nodes: folders become
// folder nodes, files with a registered Tree-sitter grammar become file
// nodes, and each file's full syntax tree becomes a chain of entity nodes
// hanging off the file. Top-level entities additionally get vector
// embeddings attached, one per fixed-size text chunk, which back semantic
// search over the indexed code.
//
// # Pipeline Overview
//
// One ingestion run moves through four stages per file:
//
//  1. Discovery: list the directory, split entries into folders and files,
//     and drop anything the ignore filter matches
//  2. Parsing: run the file through its Tree-sitter grammar and map the
//     resulting tree into Entity values with byte spans and sibling order
//  3. Embedding: chunk each top-level entity's text and vectorize the chunks
//  4. Persistence: create the nodes in HelixDB, parent before child, through
//     the GraphStore interface
//
// Files with no registered grammar and files a grammar refuses are skipped
// and counted; errors talking to the store abort the run.
//
// # Supported Languages
//
// DefaultGrammars registers Tree-sitter grammars for:
//   - Go (.go)
//   - Python (.py)
//   - JavaScript (.js)
//
// Additional grammars can be added with GrammarRegistry.Register.
//
// # Quick Start
//
//	client := helix.NewClient("http://localhost:6969", logger)
//	pipe, err := ingestion.NewPipeline(ingestion.Config{Store: client}, logger)
//	if err != nil {
//	    return err
//	}
//	res, err := pipe.Ingest(ctx, "/path/to/repo")
package ingestion
