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
	"fmt"
	"os"
	"path/filepath"

	"github.com/HelixDB/codebase-index/pkg/ignore"
)

// ScanDirectory lists the immediate children of dir, partitioned into folder
// and file names, excluding entries the filter ignores. The two collections
// keep the underlying directory-listing order.
//
// The caller is expected to have validated that dir exists and is a
// directory; a listing failure here aborts the ingestion run.
func ScanDirectory(dir string, filter *ignore.Filter) (folders, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		isDir := entry.IsDir()
		if filter != nil && filter.IsIgnored(filepath.Join(dir, name), isDir) {
			continue
		}
		if isDir {
			folders = append(folders, name)
		} else {
			files = append(files, name)
		}
	}
	return folders, files, nil
}
