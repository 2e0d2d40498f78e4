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

package testing

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree materializes a source tree under a fresh temp directory and
// returns its root. Keys are slash-separated relative paths; a key ending
// in "/" creates an empty directory, any other key creates a file with the
// given content. Parent directories are created as needed.
//
// Example:
//
//	root := testing.WriteTree(t, map[string]string{
//	    ".gitignore":  "*.pyc\n",
//	    "a.py":        "def f():\n    pass\n",
//	    "src/b.py":    "y = 2\n",
//	    "empty/":      "",
//	})
func WriteTree(t *testing.T, entries map[string]string) string {
	t.Helper()
	root := t.TempDir()

	// Sort for deterministic creation order in failure messages.
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if len(p) > 0 && p[len(p)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(entries[p]), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
	return root
}

// ReadTree walks root and returns its files as slash-separated relative
// paths mapped to their contents. Directories are omitted. The inverse of
// WriteTree, for asserting on trees a test mutated.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree at %s: %v", root, err)
	}
	return out
}
