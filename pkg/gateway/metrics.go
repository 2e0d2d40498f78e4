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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsGateway holds Prometheus metrics for the query gateway.
type metricsGateway struct {
	once sync.Once

	queriesServed   prometheus.Counter
	queriesRejected prometheus.Counter
	queriesFailed   prometheus.Counter
	searchesServed  prometheus.Counter
}

var gwMetrics metricsGateway

func (m *metricsGateway) init() {
	m.once.Do(func() {
		m.queriesServed = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_gw_queries_served_total", Help: "Queries validated and executed"})
		m.queriesRejected = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_gw_queries_rejected_total", Help: "Queries rejected before reaching HelixDB"})
		m.queriesFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_gw_queries_failed_total", Help: "Queries that failed at HelixDB"})
		m.searchesServed = prometheus.NewCounter(prometheus.CounterOpts{Name: "hxidx_gw_searches_served_total", Help: "Semantic searches served"})

		prometheus.MustRegister(
			m.queriesServed, m.queriesRejected, m.queriesFailed, m.searchesServed,
		)
	})
}

// record helpers - used by the gateway for metrics tracking
func recordQueryServed()   { gwMetrics.init(); gwMetrics.queriesServed.Inc() }
func recordQueryRejected() { gwMetrics.init(); gwMetrics.queriesRejected.Inc() }
func recordQueryFailed()   { gwMetrics.init(); gwMetrics.queriesFailed.Inc() }
func recordSearchServed()  { gwMetrics.init(); gwMetrics.searchesServed.Inc() }
