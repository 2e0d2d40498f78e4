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
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Entity is one mapped syntax-tree node. The mapping is purely structural:
// every node the grammar produces is kept, including punctuation tokens, so
// the Entity tree reproduces the parse tree exactly.
type Entity struct {
	// Type is the grammar's node type tag, e.g. "function_definition".
	Type string

	// StartByte and EndByte delimit the node's source span [start, end) in
	// bytes, not runes.
	StartByte int
	EndByte   int

	// Order is 0 for the syntax root and 1 + index-among-siblings for every
	// other node.
	Order int

	// Text is the source slice [StartByte, EndByte) decoded as UTF-8.
	Text string

	// Children in source order.
	Children []*Entity
}

// MapSource parses source with the given grammar and converts the syntax
// tree into an Entity hierarchy. Source that is not valid UTF-8 is a parse
// failure for the whole file, never a partial result.
func MapSource(ctx context.Context, g Grammar, source []byte) (*Entity, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("source is not valid UTF-8")
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.Language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	return mapNode(tree.RootNode(), source, 0), nil
}

// mapNode converts one syntax node and its subtree. Children get order
// 1 + index among their siblings.
func mapNode(node *sitter.Node, source []byte, order int) *Entity {
	e := &Entity{
		Type:      node.Type(),
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		Order:     order,
		Text:      string(source[node.StartByte():node.EndByte()]),
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		e.Children = append(e.Children, mapNode(node.Child(i), source, i+1))
	}
	return e
}
