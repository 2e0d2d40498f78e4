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

package helix

import "context"

// Typed wrappers over the creation and search queries in
// helixdb-cfg/queries.hx. Return-label keys must match each query's RETURN
// clause.

// CreateRoot creates the Root node for an ingestion run.
func (c *Client) CreateRoot(ctx context.Context, name string) (string, error) {
	records, err := c.Query(ctx, "createRoot", map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	return extractID(records, "root")
}

// CreateSuperFolder creates a folder directly under the Root.
func (c *Client) CreateSuperFolder(ctx context.Context, rootID, name string) (string, error) {
	records, err := c.Query(ctx, "createSuperFolder", map[string]any{
		"root_id": rootID,
		"name":    name,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "folder")
}

// CreateSubFolder creates a folder nested inside another folder.
func (c *Client) CreateSubFolder(ctx context.Context, folderID, name string) (string, error) {
	records, err := c.Query(ctx, "createSubFolder", map[string]any{
		"folder_id": folderID,
		"name":      name,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "subfolder")
}

// CreateSuperFile creates a file directly under the Root.
func (c *Client) CreateSuperFile(ctx context.Context, rootID, name, text string) (string, error) {
	records, err := c.Query(ctx, "createSuperFile", map[string]any{
		"root_id": rootID,
		"name":    name,
		"text":    text,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "file")
}

// CreateFile creates a file inside a folder.
func (c *Client) CreateFile(ctx context.Context, folderID, name, text string) (string, error) {
	records, err := c.Query(ctx, "createFile", map[string]any{
		"folder_id": folderID,
		"name":      name,
		"text":      text,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "file")
}

// CreateSuperEntity creates a top-level syntax entity under a file.
func (c *Client) CreateSuperEntity(ctx context.Context, fileID, entityType string, startByte, endByte, order int, text string) (string, error) {
	records, err := c.Query(ctx, "createSuperEntity", map[string]any{
		"file_id":    fileID,
		"entity_type": entityType,
		"start_byte": startByte,
		"end_byte":   endByte,
		"order":      order,
		"text":       text,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "entity")
}

// CreateSubEntity creates a syntax entity nested under another entity.
func (c *Client) CreateSubEntity(ctx context.Context, parentID, entityType string, startByte, endByte, order int, text string) (string, error) {
	records, err := c.Query(ctx, "createSubEntity", map[string]any{
		"entity_id":  parentID,
		"entity_type": entityType,
		"start_byte": startByte,
		"end_byte":   endByte,
		"order":      order,
		"text":       text,
	})
	if err != nil {
		return "", err
	}
	return extractID(records, "entity")
}

// AttachEmbedding stores one chunk vector against a super entity.
func (c *Client) AttachEmbedding(ctx context.Context, entityID string, vector []float32) error {
	_, err := c.Query(ctx, "embedSuperEntity", map[string]any{
		"entity_id": entityID,
		"vector":    vector,
	})
	return err
}

// SearchSuperEntity returns the k super entities whose embeddings are
// nearest to vector.
func (c *Client) SearchSuperEntity(ctx context.Context, vector []float32, k int) ([]Record, error) {
	return c.Query(ctx, "searchSuperEntity", map[string]any{
		"vector": vector,
		"k":      k,
	})
}
