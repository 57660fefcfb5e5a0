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

// Package ondemand implements the on-demand request dispatcher that lets a
// light client, which holds no local state, obtain state from a pool of
// remote peers that do. It owns a FIFO request queue, a registry split
// between idle and actively-serving peers, and the protocol for matching
// requests to peers, verifying their responses, and evicting peers that
// misbehave or time out.
//
// The wire codec, the cryptographic proof verifier and peer discovery all
// live outside this package; it only produces logical outbound messages
// and consumes logical inbound ones through the FetchChecker and
// PeerTransport interfaces.
package ondemand
