// Copyright 2024 The ondemand Authors
// This file is part of the ondemand library.
//
// The ondemand library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ondemand library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ondemand library. If not, see <http://www.gnu.org/licenses/>.

package ondemand

import "github.com/ethereum/go-ethereum/metrics"

// dispatcherMetrics bundles the gauges and meters one Dispatcher updates,
// named under an "ondemand/" namespace following the "les/..." convention
// used throughout the light-client protocol handler.
type dispatcherMetrics struct {
	peersIdle         metrics.Gauge
	peersActive       metrics.Gauge
	queuePending      metrics.Gauge
	requestsEvicted   metrics.Meter
	requestsDelivered metrics.Meter
}

// newDispatcherMetrics registers the dispatcher's counters against r. Each
// Dispatcher gets its own metrics.Registry (see NewDispatcher) rather than
// the process-wide default, so that unrelated Dispatcher instances in the
// same process — notably in tests — never collide on metric names.
func newDispatcherMetrics(r metrics.Registry) *dispatcherMetrics {
	return &dispatcherMetrics{
		peersIdle:         metrics.NewRegisteredGauge("ondemand/peers/idle", r),
		peersActive:       metrics.NewRegisteredGauge("ondemand/peers/active", r),
		queuePending:      metrics.NewRegisteredGauge("ondemand/queue/pending", r),
		requestsEvicted:   metrics.NewRegisteredMeter("ondemand/requests/evicted", r),
		requestsDelivered: metrics.NewRegisteredMeter("ondemand/requests/delivered", r),
	}
}
