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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedChunker(t *testing.T) {
	tests := []struct {
		name string
		size int
		text string
		want []string
	}{
		{"empty", 4, "", nil},
		{"shorter than size", 4, "abc", []string{"abc"}},
		{"exact multiple", 3, "abcdef", []string{"abc", "def"}},
		{"trailing remainder", 4, "abcdefghij", []string{"abcd", "efgh", "ij"}},
		{"single byte chunks", 1, "abc", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixedChunker{Size: tt.size}.Chunk(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixedChunker_RoundTrip(t *testing.T) {
	text := strings.Repeat("def f():\n    pass\n", 37)
	chunks := FixedChunker{Size: DefaultChunkSize}.Chunk(text)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for i, c := range chunks {
		assert.NotEmpty(t, c, "chunk %d", i)
		assert.LessOrEqual(t, len(c), DefaultChunkSize, "chunk %d", i)
	}
}

func TestFixedChunker_DefaultsSize(t *testing.T) {
	chunks := FixedChunker{}.Chunk(strings.Repeat("x", DefaultChunkSize+1))
	assert.Len(t, chunks, 2)
}
