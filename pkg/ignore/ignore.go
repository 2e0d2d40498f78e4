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

// Package ignore resolves gitignore-style exclusion rules during the
// ingestion walk.
//
// Rules are collected into RuleSets, one per ignore file, keyed by the
// directory that defines them. A Filter is an immutable snapshot of rule
// sets: extending it while descending into a subdirectory returns a new
// Filter, so additions made for one subtree are never visible to siblings
// or to the caller.
package ignore

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultFileName is the ignore-specification file looked up in each
// directory.
const DefaultFileName = ".gitignore"

// Pattern is a single parsed ignore rule.
type Pattern struct {
	// Glob is the pattern body with negation and trailing-slash markers
	// stripped.
	Glob string

	// Negated marks a leading-! rule: a match re-includes the path.
	Negated bool

	// DirOnly marks a trailing-slash rule that applies to directories only.
	DirOnly bool
}

// RuleSet holds the patterns of one ignore file, scoped to the directory
// that contains it and all of its descendants.
type RuleSet struct {
	// Dir is the absolute directory the patterns are relative to.
	Dir string

	// Patterns in file order. Within a set the first matching pattern wins.
	Patterns []Pattern
}

// Filter evaluates accumulated rule sets against paths. A Filter is
// immutable: Extend returns a copy with an additional rule set appended.
type Filter struct {
	fileName string
	sets     []RuleSet
	seen     map[string]bool // directories whose ignore file is already merged
	logger   *slog.Logger
}

// Load builds a Filter for an ingestion rooted at root. It reads the ignore
// file from root and from every ancestor directory up to the filesystem
// root. Missing or unreadable ignore files are logged and skipped; they
// never fail the load.
func Load(root, fileName string, logger *slog.Logger) *Filter {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Filter{
		fileName: fileName,
		seen:     make(map[string]bool),
		logger:   logger,
	}

	dir := filepath.Clean(root)
	for {
		f.merge(dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return f
}

// Extend returns a Filter that additionally honors the ignore file found in
// dir, if any. The receiver is unchanged; rule sets already merged for dir
// are not merged twice. This is the copy-on-append step performed when the
// walk descends into a new directory.
func (f *Filter) Extend(dir string) *Filter {
	dir = filepath.Clean(dir)
	if f.seen[dir] {
		return f
	}

	rs, ok := f.readRuleSet(dir)

	next := &Filter{
		fileName: f.fileName,
		sets:     make([]RuleSet, len(f.sets), len(f.sets)+1),
		seen:     make(map[string]bool, len(f.seen)+1),
		logger:   f.logger,
	}
	copy(next.sets, f.sets)
	for k := range f.seen {
		next.seen[k] = true
	}
	next.seen[dir] = true
	if ok {
		next.sets = append(next.sets, rs)
	}
	return next
}

// IsIgnored reports whether path is excluded by the accumulated rules.
//
// Rule sets whose directory contains path are evaluated most-specific first
// (longest directory wins). Each pattern is tested against the path relative
// to the rule set's directory, against the base name alone, and, for
// directories, against the base name with a trailing separator. The first
// matching pattern decides: a normal rule excludes, a negated rule
// re-includes. Paths unrelated to every rule set are not ignored.
//
// The result is a pure function of path, isDir, and the Filter's rule sets.
func (f *Filter) IsIgnored(path string, isDir bool) bool {
	path = filepath.Clean(path)
	base := filepath.Base(path)

	for _, rs := range f.applicableSets(path) {
		rel, err := filepath.Rel(rs.Dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			// Unrelated paths are "no match", never an error.
			continue
		}
		rel = filepath.ToSlash(rel)

		for _, p := range rs.Patterns {
			if !p.matches(rel, base, isDir) {
				continue
			}
			return !p.Negated
		}
	}
	return false
}

// matches tests one pattern against the candidate forms of a path.
func (p Pattern) matches(rel, base string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}
	if matchGlob(rel, p.Glob) || matchGlob(base, p.Glob) {
		return true
	}
	// Directory-only patterns also match the trailing-slash form.
	if isDir && matchGlob(base+"/", p.Glob+"/") {
		return true
	}
	return false
}

// applicableSets returns the rule sets whose directory is an ancestor of (or
// equal to) path, ordered most-specific first.
func (f *Filter) applicableSets(path string) []RuleSet {
	var out []RuleSet
	for _, rs := range f.sets {
		if rs.Dir == path || strings.HasPrefix(path, rs.Dir+string(filepath.Separator)) || rs.Dir == string(filepath.Separator) {
			out = append(out, rs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Dir) > len(out[j].Dir)
	})
	return out
}

// merge reads the ignore file in dir, if present, and appends its rule set.
func (f *Filter) merge(dir string) {
	if f.seen[dir] {
		return
	}
	f.seen[dir] = true
	if rs, ok := f.readRuleSet(dir); ok {
		f.sets = append(f.sets, rs)
	}
}

// readRuleSet parses dir's ignore file. Absent or unreadable files yield no
// rule set; a read error is logged and tolerated.
func (f *Filter) readRuleSet(dir string) (RuleSet, bool) {
	path := filepath.Join(dir, f.fileName)
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("ignore.rules.unreadable", "path", path, "err", err)
		}
		return RuleSet{}, false
	}
	defer file.Close()

	rs := RuleSet{Dir: dir}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rs.Patterns = append(rs.Patterns, parsePattern(line))
	}
	if err := scanner.Err(); err != nil {
		f.logger.Warn("ignore.rules.scan_error", "path", path, "err", err)
	}

	if len(rs.Patterns) == 0 {
		return RuleSet{}, false
	}
	f.logger.Debug("ignore.rules.loaded", "path", path, "patterns", len(rs.Patterns))
	return rs, true
}

// parsePattern splits one ignore line into its glob body and markers.
func parsePattern(line string) Pattern {
	p := Pattern{}
	if strings.HasPrefix(line, "!") {
		p.Negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.DirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	// A leading slash anchors to the rule set's directory, which is already
	// how relative candidates are matched.
	line = strings.TrimPrefix(line, "/")
	p.Glob = line
	return p
}
