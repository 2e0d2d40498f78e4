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

package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHQL = `
QUERY getRoot () =>
    root <- N<Root>
    RETURN root

QUERY getFileByName (root_id: ID, name: String) =>
    file <- N<Root>(root_id)::Out<RootToFile>::WHERE(_::{name}::EQ(name))
    RETURN file

QUERY searchSuperEntity (vector: [F64], k: I64) =>
    entities <- SearchV<EntityEmbedding>(vector, k)
    RETURN entities

QUERY createSubEntity (entity_id: ID, type: String, start_byte: I64,
    end_byte: I64, order: I64, text: String) =>
    entity <- AddN<Entity>({type: type, start_byte: start_byte})
    RETURN entity
`

func TestParseSchemas(t *testing.T) {
	schemas := ParseSchemas(sampleHQL)
	require.Len(t, schemas, 4)

	root := schemas["getRoot"]
	assert.Empty(t, root.Params)

	byName := schemas["getFileByName"]
	require.Len(t, byName.Params, 2)
	assert.Equal(t, Param{Name: "root_id", Type: TypeString}, byName.Params[0])
	assert.Equal(t, Param{Name: "name", Type: TypeString}, byName.Params[1])

	search := schemas["searchSuperEntity"]
	require.Len(t, search.Params, 2)
	assert.Equal(t, TypeFloatList, search.Params[0].Type)
	assert.Equal(t, TypeInt, search.Params[1].Type)

	// Multi-line parameter lists parse too.
	sub := schemas["createSubEntity"]
	require.Len(t, sub.Params, 6)
	assert.Equal(t, TypeInt, sub.Params[2].Type)
}

func TestParseSchemas_UnknownTypeDegradesToAny(t *testing.T) {
	schemas := ParseSchemas("QUERY q (x: Exotic) =>\n RETURN x")
	require.Len(t, schemas["q"].Params, 1)
	assert.Equal(t, TypeAny, schemas["q"].Params[0].Type)
}

func TestLoadSchemas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.hx")
	require.NoError(t, os.WriteFile(path, []byte(sampleHQL), 0o644))

	schemas, err := LoadSchemas(path)
	require.NoError(t, err)
	assert.Len(t, schemas, 4)
}

func TestLoadSchemas_Errors(t *testing.T) {
	_, err := LoadSchemas("/nonexistent/queries.hx")
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.hx")
	require.NoError(t, os.WriteFile(empty, []byte("// nothing here\n"), 0o644))
	_, err = LoadSchemas(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no QUERY declarations")
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name string
		typ  ParamType
		val  any
		want bool
	}{
		{"string ok", TypeString, "x", true},
		{"string not number", TypeString, 1.0, false},
		{"int ok", TypeInt, float64(5), true},
		{"int rejects fraction", TypeInt, 5.5, false},
		{"float ok", TypeFloat, 5.5, true},
		{"float accepts whole", TypeFloat, 5.0, true},
		{"float not string", TypeFloat, "5.5", false},
		{"string list ok", TypeStringList, []any{"a", "b"}, true},
		{"string list rejects mixed", TypeStringList, []any{"a", 1.0}, false},
		{"float list ok", TypeFloatList, []any{0.1, 0.2}, true},
		{"float list not scalar", TypeFloatList, 0.1, false},
		{"int list ok", TypeIntList, []any{1.0, 2.0}, true},
		{"any accepts everything", TypeAny, map[string]any{}, true},
		{"empty list ok", TypeFloatList, []any{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkValue(tt.typ, tt.val))
		})
	}
}
