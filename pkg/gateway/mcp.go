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
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HelixDB/codebase-index/pkg/helix"
)

// MCPServer exposes the gateway's two tools over the Model Context
// Protocol, for agents that navigate the code graph directly.
type MCPServer struct {
	gateway *Gateway
	server  *mcp.Server
}

// NewMCPServer wraps gw in an MCP server.
func NewMCPServer(gw *Gateway, version string) *MCPServer {
	impl := &mcp.Implementation{
		Name:    "codebase-index",
		Version: version,
	}
	s := &MCPServer{
		gateway: gw,
		server:  mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr.
func (s *MCPServer) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// QueryInput is the input schema for the do_query tool.
type QueryInput struct {
	Query  string         `json:"query" jsonschema:"name of the graph query to execute"`
	Params map[string]any `json:"params,omitempty" jsonschema:"parameters matching the query's declared signature"`
}

// SearchInput is the input schema for the semantic_search_code tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural-language description of the code to find"`
	K     int    `json:"k,omitempty" jsonschema:"number of results to return (default 5)"`
}

// QueryOutput is the output schema shared by both tools.
type QueryOutput struct {
	Results []helix.Record `json:"results"`
	Count   int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "do_query",
		Description: "Execute a read-only query against the code graph. Only allow-listed navigation queries are accepted.",
	}, s.handleQuery)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search_code",
		Description: "Find code entities semantically similar to a natural-language description.",
	}, s.handleSearch)
}

func (s *MCPServer) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	records, err := s.gateway.Execute(ctx, input.Query, input.Params)
	if err != nil {
		return nil, QueryOutput{}, err
	}
	return nil, QueryOutput{Results: records, Count: len(records)}, nil
}

func (s *MCPServer) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, QueryOutput, error) {
	records, err := s.gateway.SemanticSearch(ctx, input.Query, input.K)
	if err != nil {
		return nil, QueryOutput{}, err
	}
	return nil, QueryOutput{Results: records, Count: len(records)}, nil
}
