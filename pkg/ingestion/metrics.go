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
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIngestion holds Prometheus metrics for the ingestion subsystem.
type metricsIngestion struct {
	once sync.Once

	// Created nodes
	foldersCreated     prometheus.Counter
	filesCreated       prometheus.Counter
	entitiesCreated    prometheus.Counter
	embeddingsAttached prometheus.Counter

	// Skips
	filesSkipped  prometheus.Counter
	parseFailures prometheus.Counter

	// Durations
	ingestDuration prometheus.Histogram
}

var ingMetrics metricsIngestion

func (m *metricsIngestion) init() {
	m.once.Do(func() {
		m.foldersCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_folders_created_total", Help: "Folder nodes created"})
		m.filesCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_files_created_total", Help: "File nodes created"})
		m.entitiesCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_entities_created_total", Help: "Entity nodes created"})
		m.embeddingsAttached = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_embeddings_attached_total", Help: "Embeddings attached to super entities"})

		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_files_skipped_total", Help: "Files skipped for lack of a grammar"})
		m.parseFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_ing_parse_failures_total", Help: "Files that could not be read or parsed"})

		buckets := []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300}
		m.ingestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "hxidx_ing_run_seconds", Help: "Wall-clock duration of ingestion runs", Buckets: buckets})

		prometheus.MustRegister(
			m.foldersCreated, m.filesCreated, m.entitiesCreated, m.embeddingsAttached,
			m.filesSkipped, m.parseFailures,
			m.ingestDuration,
		)
	})
}

// record helpers - used by pipeline for metrics tracking
func recordFolderCreated()     { ingMetrics.init(); ingMetrics.foldersCreated.Inc() }
func recordFileCreated()       { ingMetrics.init(); ingMetrics.filesCreated.Inc() }
func recordEntityCreated()     { ingMetrics.init(); ingMetrics.entitiesCreated.Inc() }
func recordEmbeddingAttached() { ingMetrics.init(); ingMetrics.embeddingsAttached.Inc() }
func recordFileSkipped()       { ingMetrics.init(); ingMetrics.filesSkipped.Inc() }
func recordParseFailure()      { ingMetrics.init(); ingMetrics.parseFailures.Inc() }

func observeIngestDuration(d time.Duration) {
	ingMetrics.init()
	ingMetrics.ingestDuration.Observe(d.Seconds())
}
