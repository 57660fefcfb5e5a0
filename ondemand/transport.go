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

// PeerTransport is the capability to reach peers at the network layer. The
// dispatcher never owns a transport directly: it is handed a resolver
// function (see NewDispatcher) so that a destroyed network layer simply
// makes dispatch a no-op instead of keeping it alive through a strong
// reference cycle.
type PeerTransport interface {
	// SendMessage delivers msg (a RemoteReadRequest or RemoteCallRequest)
	// to peer. It may enqueue the send asynchronously but must return
	// promptly; the dispatcher holds its lock for the duration of the call.
	SendMessage(peer PeerID, msg any) error

	// DisconnectPeer tears down the connection to peer. Called when the
	// dispatcher evicts a peer for timing out or misbehaving.
	DisconnectPeer(peer PeerID)
}

// TransportResolver returns the live PeerTransport, or nil if the network
// layer that owns it has gone away.
type TransportResolver func() PeerTransport
