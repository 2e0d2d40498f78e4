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

package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0644))
}

func TestLoad_RootRules(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "*.pyc\nbuild/\n\n# a comment\n")

	f := Load(root, "", nil)

	assert.True(t, f.IsIgnored(filepath.Join(root, "a.pyc"), false))
	assert.True(t, f.IsIgnored(filepath.Join(root, "sub", "b.pyc"), false))
	assert.False(t, f.IsIgnored(filepath.Join(root, "a.py"), false))

	// build/ is directory-only
	assert.True(t, f.IsIgnored(filepath.Join(root, "build"), true))
	assert.False(t, f.IsIgnored(filepath.Join(root, "build"), false))
}

func TestLoad_AncestorRules(t *testing.T) {
	parent := t.TempDir()
	writeIgnoreFile(t, parent, "*.log\n")
	root := filepath.Join(parent, "project")
	require.NoError(t, os.Mkdir(root, 0755))

	f := Load(root, "", nil)

	// The ancestor's rules apply to the root's subtree.
	assert.True(t, f.IsIgnored(filepath.Join(root, "debug.log"), false))
	assert.False(t, f.IsIgnored(filepath.Join(root, "main.py"), false))
}

func TestLoad_MissingIgnoreFile(t *testing.T) {
	root := t.TempDir()

	f := Load(root, "", nil)

	assert.False(t, f.IsIgnored(filepath.Join(root, "anything.py"), false))
}

func TestExtend_CopyOnAppend(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeIgnoreFile(t, sub, "secret.txt\n")

	base := Load(root, "", nil)
	extended := base.Extend(sub)

	target := filepath.Join(sub, "secret.txt")
	assert.True(t, extended.IsIgnored(target, false))

	// The original filter never sees the subdirectory's rules.
	assert.False(t, base.IsIgnored(target, false))
}

func TestExtend_AlreadyMergedDir(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "*.tmp\n")

	f := Load(root, "", nil)

	// Root's rules were loaded up front; extending with root is a no-op.
	assert.Same(t, f, f.Extend(root))
}

func TestIsIgnored_MostSpecificFirst(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeIgnoreFile(t, root, "keep.txt\n")
	writeIgnoreFile(t, sub, "!keep.txt\n")

	f := Load(root, "", nil).Extend(sub)

	// The deeper rule set re-includes the file that the root set excludes.
	assert.False(t, f.IsIgnored(filepath.Join(sub, "keep.txt"), false))
	assert.True(t, f.IsIgnored(filepath.Join(root, "keep.txt"), false))
}

func TestIsIgnored_Negation(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "!important.pyc\n*.pyc\n")

	f := Load(root, "", nil)

	assert.False(t, f.IsIgnored(filepath.Join(root, "important.pyc"), false))
	assert.True(t, f.IsIgnored(filepath.Join(root, "other.pyc"), false))
}

func TestIsIgnored_UnrelatedPath(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "*.pyc\n")

	f := Load(root, "", nil)

	// Paths not under any rule set directory are never ignored; the failed
	// relative-path comparison is "no match", not an error.
	assert.False(t, f.IsIgnored(filepath.Join(t.TempDir(), "a.pyc"), false))
}

func TestIsIgnored_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "build/\n*.pyc\n!keep.pyc\n")

	f := Load(root, "", nil)
	paths := []struct {
		path  string
		isDir bool
	}{
		{filepath.Join(root, "build"), true},
		{filepath.Join(root, "a.pyc"), false},
		{filepath.Join(root, "keep.pyc"), false},
		{filepath.Join(root, "main.py"), false},
	}

	for _, p := range paths {
		first := f.IsIgnored(p.path, p.isDir)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, f.IsIgnored(p.path, p.isDir), "path %s", p.path)
		}
	}
}

func TestParsePattern(t *testing.T) {
	tests := []struct {
		line string
		want Pattern
	}{
		{"*.pyc", Pattern{Glob: "*.pyc"}},
		{"build/", Pattern{Glob: "build", DirOnly: true}},
		{"!keep.txt", Pattern{Glob: "keep.txt", Negated: true}},
		{"/anchored.py", Pattern{Glob: "anchored.py"}},
		{"!cache/", Pattern{Glob: "cache", Negated: true, DirOnly: true}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePattern(tt.line))
		})
	}
}
