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

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHelix records the last request and replies with a canned body.
type fakeHelix struct {
	lastPath string
	lastBody map[string]any
	status   int
	response string
}

func (f *fakeHelix) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastPath = r.URL.Path
		f.lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_, _ = w.Write([]byte(f.response))
	}
}

func TestQuery_PostsNamedQuery(t *testing.T) {
	fake := &fakeHelix{response: `{"root": [{"id": "r1", "label": "Root"}]}`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	records, err := c.Query(context.Background(), "createRoot", map[string]any{"name": "/repo"})
	require.NoError(t, err)

	assert.Equal(t, "/createRoot", fake.lastPath)
	assert.Equal(t, "/repo", fake.lastBody["name"])
	require.Len(t, records, 1)
}

func TestQuery_NormalizesListResponse(t *testing.T) {
	fake := &fakeHelix{response: `[{"id": "a"}, {"id": "b"}]`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	records, err := NewClient(srv.URL, nil).Query(context.Background(), "getAllFiles", nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["id"])
}

func TestQuery_NilParamsSendsEmptyObject(t *testing.T) {
	fake := &fakeHelix{response: `{}`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Query(context.Background(), "getRoot", nil)
	require.NoError(t, err)
	assert.NotNil(t, fake.lastBody)
	assert.Empty(t, fake.lastBody)
}

func TestQuery_ErrorStatus(t *testing.T) {
	fake := &fakeHelix{status: http.StatusInternalServerError, response: `query failed`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Query(context.Background(), "createRoot", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "query failed")
}

func TestCreateRoot_ExtractsID(t *testing.T) {
	fake := &fakeHelix{response: `{"root": [{"id": "root-1", "label": "Root", "name": "/repo"}]}`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	id, err := NewClient(srv.URL, nil).CreateRoot(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "root-1", id)
}

func TestCreateSubEntity_SendsSpan(t *testing.T) {
	fake := &fakeHelix{response: `{"entity": [{"id": "e-9"}]}`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	id, err := NewClient(srv.URL, nil).CreateSubEntity(context.Background(), "e-1", "block", 4, 17, 2, "pass")
	require.NoError(t, err)
	assert.Equal(t, "e-9", id)

	assert.Equal(t, "/createSubEntity", fake.lastPath)
	assert.Equal(t, "e-1", fake.lastBody["entity_id"])
	assert.Equal(t, "block", fake.lastBody["entity_type"])
	assert.Equal(t, float64(4), fake.lastBody["start_byte"])
	assert.Equal(t, float64(17), fake.lastBody["end_byte"])
	assert.Equal(t, float64(2), fake.lastBody["order"])
}

func TestSearchSuperEntity(t *testing.T) {
	fake := &fakeHelix{response: `{"entities": [{"id": "e-1", "text": "def f(): pass"}]}`}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	records, err := NewClient(srv.URL, nil).SearchSuperEntity(context.Background(), []float32{0.1, 0.2}, 5)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "/searchSuperEntity", fake.lastPath)
	assert.Equal(t, float64(5), fake.lastBody["k"])
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		key     string
		want    string
		wantErr bool
	}{
		{"list projection", []Record{{"root": []any{map[string]any{"id": "r1"}}}}, "root", "r1", false},
		{"object projection", []Record{{"root": map[string]any{"id": "r1"}}}, "root", "r1", false},
		{"empty result", nil, "root", "", true},
		{"missing key", []Record{{"other": []any{}}}, "root", "", true},
		{"empty list", []Record{{"root": []any{}}}, "root", "", true},
		{"missing id", []Record{{"root": []any{map[string]any{"name": "x"}}}}, "root", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractID(tt.records, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
