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

// Package testing provides filesystem fixtures for ingestion tests.
//
// Most tests in this repository start from a small source tree on disk:
// some files with registered grammars, some without, ignore files at
// various depths. WriteTree builds such a tree from a flat map in one
// call, and ReadTree reads one back for assertions.
//
// # Quick Start
//
//	func TestMyFeature(t *testing.T) {
//	    root := testing.WriteTree(t, map[string]string{
//	        ".gitignore": "*.pyc\n",
//	        "a.py":       "def f():\n    pass\n",
//	        "src/b.py":   "y = 2\n",
//	    })
//
//	    // Ingest root and verify...
//	}
package testing
