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

// Package gateway exposes the indexed graph to agents and tools.
//
// The gateway sits in front of HelixDB and validates every request before
// it touches the database: the query must be on the read-only allow-list,
// and its parameters must match the signature declared in queries.hx.
// Invalid requests are rejected without any database round-trip. The same
// validated surface is served over plain HTTP (Server) and over the Model
// Context Protocol (MCPServer).
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/HelixDB/codebase-index/pkg/helix"
	"github.com/HelixDB/codebase-index/pkg/ingestion"
)

// DefaultSearchResults is how many entities a semantic search returns when
// the caller does not say.
const DefaultSearchResults = 5

// AllowedQueries is the read-only surface the gateway exposes. Creation and
// embedding queries are deliberately absent.
var AllowedQueries = map[string]bool{
	"getRoot":         true,
	"getFolderRoot":   true,
	"getFileRoot":     true,
	"getFolder":       true,
	"getFolderByName": true,
	"getAllFolders":   true,
	"getRootFolders":  true,
	"getSuperFolders": true,
	"getSubFolders":   true,
	"getFileFolder":   true,
	"getFile":         true,
	"getFileContent":  true,
	"getFileByName":   true,
	"getAllFiles":     true,
	"getRootFiles":    true,
	"getFolderFiles":  true,
	"getFileEntities": true,
	"getEntityFile":   true,
	"getSubEntities":  true,
	"getSuperEntity":  true,
}

// Querier is the slice of the HelixDB client the gateway needs.
type Querier interface {
	Query(ctx context.Context, name string, params map[string]any) ([]helix.Record, error)
	SearchSuperEntity(ctx context.Context, vector []float32, k int) ([]helix.Record, error)
}

// RequestError is a client-side fault: unknown query, missing or mistyped
// parameter. It maps to HTTP 400 and to an MCP tool error.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func requestErrorf(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// Gateway validates and executes graph queries.
type Gateway struct {
	client   Querier
	embedder ingestion.EmbeddingProvider
	schemas  map[string]QuerySchema
	logger   *slog.Logger
}

// New creates a gateway over client. schemas comes from LoadSchemas and must
// cover every allow-listed query the deployment actually serves; embedder
// vectorizes semantic-search input and must match the provider used at
// ingestion time.
func New(client Querier, embedder ingestion.EmbeddingProvider, schemas map[string]QuerySchema, logger *slog.Logger) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("helix client is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:   client,
		embedder: embedder,
		schemas:  schemas,
		logger:   logger,
	}, nil
}

// Execute runs one allow-listed query. Validation happens entirely before
// the database call: allow-list first, then declared schema, then missing
// parameters, then parameter types. Parameters not in the declaration are
// rejected too.
func (g *Gateway) Execute(ctx context.Context, name string, params map[string]any) ([]helix.Record, error) {
	if !AllowedQueries[name] {
		recordQueryRejected()
		return nil, requestErrorf("query %q is not allowed; allowed queries: %s", name, allowedNames())
	}
	schema, ok := g.schemas[name]
	if !ok {
		recordQueryRejected()
		return nil, requestErrorf("query %q has no declared schema", name)
	}

	if params == nil {
		params = map[string]any{}
	}
	declared := make(map[string]ParamType, len(schema.Params))
	for _, p := range schema.Params {
		declared[p.Name] = p.Type
		v, ok := params[p.Name]
		if !ok {
			recordQueryRejected()
			return nil, requestErrorf("query %q: missing parameter %q (%s)", name, p.Name, p.Type)
		}
		if !checkValue(p.Type, v) {
			recordQueryRejected()
			return nil, requestErrorf("query %q: parameter %q must be a %s", name, p.Name, p.Type)
		}
	}
	for k := range params {
		if _, ok := declared[k]; !ok {
			recordQueryRejected()
			return nil, requestErrorf("query %q: unknown parameter %q", name, k)
		}
	}

	g.logger.Info("gateway.query", "name", name, "params", len(params))
	records, err := g.client.Query(ctx, name, params)
	if err != nil {
		recordQueryFailed()
		return nil, err
	}
	recordQueryServed()
	return records, nil
}

// SemanticSearch embeds the query text and returns the k nearest super
// entities. k <= 0 selects DefaultSearchResults.
func (g *Gateway) SemanticSearch(ctx context.Context, query string, k int) ([]helix.Record, error) {
	if query == "" {
		return nil, requestErrorf("search query must not be empty")
	}
	if k <= 0 {
		k = DefaultSearchResults
	}

	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	g.logger.Info("gateway.search", "k", k)
	records, err := g.client.SearchSuperEntity(ctx, vector, k)
	if err != nil {
		recordQueryFailed()
		return nil, err
	}
	recordSearchServed()
	return records, nil
}

func allowedNames() string {
	names := make([]string, 0, len(AllowedQueries))
	for name := range AllowedQueries {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
