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

// Package helix is a client for HelixDB's named-query HTTP API.
//
// Every query compiled into a HelixDB instance is exposed as POST
// {base}/{queryName} taking a JSON object of parameters and returning the
// query's projection as JSON. Client.Query is the raw entry point; the
// typed wrappers in queries.go cover the queries the indexer ships in
// helixdb-cfg/queries.hx.
package helix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is where a locally deployed HelixDB instance listens.
const DefaultBaseURL = "http://localhost:6969"

// Record is one row of a query result.
type Record = map[string]any

// Client talks to one HelixDB instance.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the instance at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// BaseURL returns the instance address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query executes the named query with the given parameters and returns the
// result rows. A nil params sends an empty object. HelixDB returns either a
// JSON object (a single projection) or a JSON array of objects; both are
// normalized to a slice.
func (c *Client) Query(ctx context.Context, name string, params map[string]any) ([]Record, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params for %s: %w", name, err)
	}

	url := c.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", name, err)
	}
	c.logger.Debug("helix.query", "name", name, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query %s: status %d: %s", name, resp.StatusCode, truncate(raw, 512))
	}
	return decodeRecords(name, raw)
}

// decodeRecords accepts both response shapes HelixDB produces.
func decodeRecords(name string, raw []byte) ([]Record, error) {
	var list []Record
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single Record
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", name, err)
	}
	return []Record{single}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// extractID digs the node identifier out of a query result. Creation
// queries project the new node under its return label, e.g.
//
//	{"root": [{"id": "...", "label": "Root", ...}]}
//
// and the id lives on the first element of that list. Some projections
// return the node object directly rather than a one-element list.
func extractID(records []Record, key string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("empty result for %q", key)
	}
	val, ok := records[0][key]
	if !ok {
		return "", fmt.Errorf("result has no %q field", key)
	}
	if list, ok := val.([]any); ok {
		if len(list) == 0 {
			return "", fmt.Errorf("result %q is an empty list", key)
		}
		val = list[0]
	}
	node, ok := val.(map[string]any)
	if !ok {
		return "", fmt.Errorf("result %q is not a node object", key)
	}
	id, ok := node["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("node %q has no id", key)
	}
	return id, nil
}
