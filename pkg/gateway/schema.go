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
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ParamType is the coarse validation type a query parameter maps to.
type ParamType int

const (
	// TypeAny accepts any JSON value. Declared types outside the known
	// set degrade to this rather than rejecting the whole schema.
	TypeAny ParamType = iota
	// TypeString matches HQL String and ID.
	TypeString
	// TypeInt matches HQL I64 and friends.
	TypeInt
	// TypeFloat matches HQL F64.
	TypeFloat
	// TypeStringList matches [String] and [ID].
	TypeStringList
	// TypeIntList matches [I64].
	TypeIntList
	// TypeFloatList matches [F64].
	TypeFloatList
)

func (t ParamType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeStringList:
		return "list of strings"
	case TypeIntList:
		return "list of integers"
	case TypeFloatList:
		return "list of numbers"
	default:
		return "any"
	}
}

// Param is one declared query parameter.
type Param struct {
	Name string
	Type ParamType
}

// QuerySchema is the declared signature of one named query.
type QuerySchema struct {
	Name   string
	Params []Param
}

// QUERY getFileByName (root_id: ID, name: String) =>
var (
	queryRe = regexp.MustCompile(`(?s)QUERY\s+(\w+)\s*\((.*?)\)\s*=>`)
	paramRe = regexp.MustCompile(`(\w+)\s*:\s*(\[?\w+\]?)`)
)

// ParseSchemas extracts query signatures from HQL source. Anything that is
// not a QUERY declaration header is ignored, so the full queries.hx file can
// be fed in as-is.
func ParseSchemas(source string) map[string]QuerySchema {
	schemas := make(map[string]QuerySchema)
	for _, m := range queryRe.FindAllStringSubmatch(source, -1) {
		name, rawParams := m[1], m[2]
		schema := QuerySchema{Name: name}
		for _, pm := range paramRe.FindAllStringSubmatch(rawParams, -1) {
			schema.Params = append(schema.Params, Param{
				Name: pm[1],
				Type: mapHQLType(pm[2]),
			})
		}
		schemas[name] = schema
	}
	return schemas
}

// LoadSchemas reads an .hx file and parses its query signatures.
func LoadSchemas(path string) (map[string]QuerySchema, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}
	schemas := ParseSchemas(string(source))
	if len(schemas) == 0 {
		return nil, fmt.Errorf("no QUERY declarations in %s", path)
	}
	return schemas, nil
}

func mapHQLType(hql string) ParamType {
	switch strings.TrimSpace(hql) {
	case "String", "ID":
		return TypeString
	case "I8", "I16", "I32", "I64", "U8", "U16", "U32", "U64":
		return TypeInt
	case "F32", "F64":
		return TypeFloat
	case "[String]", "[ID]":
		return TypeStringList
	case "[I64]", "[I32]":
		return TypeIntList
	case "[F64]", "[F32]":
		return TypeFloatList
	default:
		return TypeAny
	}
}

// checkValue reports whether a decoded JSON value is acceptable for t.
// JSON numbers arrive as float64; integers are floats with no fraction.
func checkValue(t ParamType, v any) bool {
	switch t {
	case TypeAny:
		return true
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInt:
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	case TypeFloat:
		_, ok := v.(float64)
		return ok
	case TypeStringList, TypeIntList, TypeFloatList:
		list, ok := v.([]any)
		if !ok {
			return false
		}
		elem := TypeString
		if t == TypeIntList {
			elem = TypeInt
		} else if t == TypeFloatList {
			elem = TypeFloat
		}
		for _, e := range list {
			if !checkValue(elem, e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
