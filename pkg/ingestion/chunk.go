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

// DefaultChunkSize is the width, in bytes, of the fixed-size chunks a
// super-entity's text is split into before embedding.
const DefaultChunkSize = 50

// Chunker splits an entity's text into the substrings that are embedded
// individually. Implementations must not lose or reorder characters: the
// concatenation of the returned chunks equals the input exactly, and
// non-empty input yields at least one chunk.
type Chunker interface {
	Chunk(text string) []string
}

// FixedChunker splits text into non-overlapping substrings of Size bytes;
// the final substring may be shorter. Chunk boundaries carry no semantic
// meaning.
type FixedChunker struct {
	Size int
}

// Chunk implements Chunker.
func (c FixedChunker) Chunk(text string) []string {
	size := c.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	if text == "" {
		return nil
	}

	chunks := make([]string, 0, (len(text)+size-1)/size)
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}
