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
	"testing"
)

func TestMatchGlob_BasicPatterns(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		// Exact match
		{"exact match", "foo.py", "foo.py", true},
		{"exact no match", "foo.py", "bar.py", false},

		// * wildcard (single segment)
		{"star ext", "foo.pyc", "*.pyc", true},
		{"star prefix", "test_foo", "test_*", true},
		{"star middle", "test_foo_bar", "test_*_bar", true},
		{"star no match ext", "foo.txt", "*.py", false},
		{"star does not cross separator", "a/b.py", "*.py", false},

		// ** wildcard (any depth)
		{"doublestar any depth", "a/b/c/foo.py", "**/*.py", true},
		{"doublestar at root", "foo.py", "**/*.py", true},
		{"doublestar dir contents", "node_modules/pkg/index.js", "node_modules/**", true},
		{"doublestar dir itself", "node_modules", "node_modules/**", true},
		{"doublestar deep", "vendor/a/b/c/d.go", "vendor/**", true},

		// ? wildcard
		{"question single", "foo.py", "fo?.py", true},
		{"question no match", "fooo.py", "fo?.py", false},

		// Character classes
		{"char class match", "foo.po", "foo.[pt]o", true},
		{"char class no match", "foo.po", "foo.[ab]o", false},
		{"char range match", "file1.py", "file[0-9].py", true},
		{"char range no match", "filea.py", "file[0-9].py", false},
		{"negated class match", "foo.po", "foo.[!ab]o", true},
		{"negated class no match", "foo.ao", "foo.[!ab]o", false},

		// Anchoring: pattern must cover the whole path
		{"no implicit prefix", "src/test.py", "test.py", false},
		{"no implicit suffix", "build", "build/output", false},

		// Edge cases
		{"empty path doublestar", "", "**", true},
		{"empty pattern", "foo.py", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchGlob(tt.path, tt.pattern)
			if got != tt.want {
				t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchCharClass(t *testing.T) {
	tests := []struct {
		c     byte
		class string
		want  bool
	}{
		{'a', "abc", true},
		{'d', "abc", false},
		{'m', "a-z", true},
		{'M', "a-z", false},
		{'a', "!abc", false},
		{'d', "!abc", true},
		{'d', "^abc", true},
		{'x', "", false},
	}

	for _, tt := range tests {
		if got := matchCharClass(tt.c, tt.class); got != tt.want {
			t.Errorf("matchCharClass(%q, %q) = %v, want %v", tt.c, tt.class, got, tt.want)
		}
	}
}
