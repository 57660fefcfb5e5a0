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

import "errors"

// ErrFetchCancelled is returned from ResponseHandle.Wait when the dispatcher
// is shut down before the request it is waiting on was delivered.
var ErrFetchCancelled = errors.New("ondemand: remote fetch cancelled")

// internal sentinels, never surfaced past the dispatcher boundary: peer
// misbehavior is logged and the peer evicted, but the consumer's
// ResponseHandle simply keeps waiting for the request to succeed on a
// different peer.
var (
	errUnknownPeer  = errors.New("ondemand: response from unknown or inactive peer")
	errIDMismatch   = errors.New("ondemand: response id does not match outstanding request")
	errKindMismatch = errors.New("ondemand: response kind does not match outstanding request")
)
