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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTree(t *testing.T) {
	root := WriteTree(t, map[string]string{
		"a.py":       "x = 1\n",
		"src/b.py":   "y = 2\n",
		"deep/d/e.c": "",
		"empty/":     "",
	})

	content, err := os.ReadFile(filepath.Join(root, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))

	content, err = os.ReadFile(filepath.Join(root, "src", "b.py"))
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", string(content))

	info, err := os.Stat(filepath.Join(root, "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(root, "deep", "d", "e.c"))
	assert.NoError(t, err)
}

func TestReadTree_RoundTrip(t *testing.T) {
	in := map[string]string{
		"a.py":     "x = 1\n",
		"src/b.py": "y = 2\n",
	}
	root := WriteTree(t, in)

	out := ReadTree(t, root)
	assert.Equal(t, in, out)
}

func TestWriteTree_IsolatedRoots(t *testing.T) {
	a := WriteTree(t, map[string]string{"x.py": ""})
	b := WriteTree(t, map[string]string{"y.py": ""})
	assert.NotEqual(t, a, b)

	_, err := os.Stat(filepath.Join(b, "x.py"))
	assert.True(t, os.IsNotExist(err))
}
