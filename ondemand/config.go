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

import "time"

// DefaultRequestTimeout is how long a request may stay bound to a peer
// before that peer is considered unresponsive and evicted.
const DefaultRequestTimeout = 15 * time.Second

// DefaultMaintainInterval is how often the background maintenance loop
// started by Dispatcher.Start scans for timed-out requests.
const DefaultMaintainInterval = 5 * time.Second

// Config holds the tunables of a Dispatcher. The zero value is not valid;
// use DefaultConfig and override individual fields as needed.
type Config struct {
	// RequestTimeout is how long a request may remain bound to a single
	// peer before that peer is evicted and the request requeued.
	RequestTimeout time.Duration

	// MaintainInterval is the period of the background ticker started by
	// Dispatcher.Start. It has no effect on callers that drive Maintain
	// themselves.
	MaintainInterval time.Duration
}

// DefaultConfig returns the configuration used by the reference light
// client: a 15 second request timeout, matching REQUEST_TIMEOUT, polled
// every 5 seconds.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:   DefaultRequestTimeout,
		MaintainInterval: DefaultMaintainInterval,
	}
}
