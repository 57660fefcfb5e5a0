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

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// RemoteReadRequest is the logical outbound message for a storage read,
// produced by dispatch and handed to PeerTransport.SendMessage. A transport
// built on p2p/rlp can serialize it directly with rlp.Encode.
type RemoteReadRequest struct {
	ID    uint64
	Block common.Hash
	Key   []byte
}

// RemoteCallRequest is the logical outbound message for a runtime call.
type RemoteCallRequest struct {
	ID       uint64
	Block    common.Hash
	Method   string
	CallData []byte
}

// RemoteReadResponse is the logical inbound message answering a
// RemoteReadRequest: a Merkle proof the FetchChecker can validate against a
// known block root.
type RemoteReadResponse struct {
	ID    uint64
	Proof [][]byte
}

// RemoteCallResponse is the logical inbound message answering a
// RemoteCallRequest: the claimed return value plus the execution proof.
type RemoteCallResponse struct {
	ID    uint64
	Value []byte
	Proof [][]byte
}

// EncodeRLP renders m using the wire encoding a PeerTransport would send.
func (m RemoteReadRequest) EncodeRLP() ([]byte, error) { return rlp.EncodeToBytes(&m) }

// EncodeRLP renders m using the wire encoding a PeerTransport would send.
func (m RemoteCallRequest) EncodeRLP() ([]byte, error) { return rlp.EncodeToBytes(&m) }

// DecodeRemoteReadResponse parses the RLP encoding a transport received
// for a read response.
func DecodeRemoteReadResponse(data []byte) (RemoteReadResponse, error) {
	var resp RemoteReadResponse
	err := rlp.DecodeBytes(data, &resp)
	return resp, err
}

// DecodeRemoteCallResponse parses the RLP encoding a transport received
// for a call response.
func DecodeRemoteCallResponse(data []byte) (RemoteCallResponse, error) {
	var resp RemoteCallResponse
	err := rlp.DecodeBytes(data, &resp)
	return resp, err
}
