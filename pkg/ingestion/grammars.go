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
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// Grammar binds a Tree-sitter language to a name for logging.
type Grammar struct {
	Name     string
	Language *sitter.Language
}

// GrammarRegistry maps file extensions to grammars. Files whose extension
// has no registered grammar are skipped by the pipeline.
type GrammarRegistry struct {
	byExt map[string]Grammar
}

// NewGrammarRegistry creates an empty registry.
func NewGrammarRegistry() *GrammarRegistry {
	return &GrammarRegistry{byExt: make(map[string]Grammar)}
}

// DefaultGrammars returns the registry used by the CLI: Python, JavaScript,
// and Go.
func DefaultGrammars() *GrammarRegistry {
	r := NewGrammarRegistry()
	r.Register(".py", Grammar{Name: "python", Language: python.GetLanguage()})
	r.Register(".js", Grammar{Name: "javascript", Language: javascript.GetLanguage()})
	r.Register(".go", Grammar{Name: "go", Language: golang.GetLanguage()})
	return r
}

// Register associates a file extension (including the leading dot) with a
// grammar. Registering an extension twice replaces the earlier grammar.
func (r *GrammarRegistry) Register(ext string, g Grammar) {
	r.byExt[strings.ToLower(ext)] = g
}

// Lookup returns the grammar for a file name's extension.
func (r *GrammarRegistry) Lookup(fileName string) (Grammar, bool) {
	g, ok := r.byExt[strings.ToLower(filepath.Ext(fileName))]
	return g, ok
}
