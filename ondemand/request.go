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
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
)

// BlockID identifies the chain state a request is answered against.
type BlockID = common.Hash

// ReadPayload is a remote storage read: the value of key at block.
type ReadPayload struct {
	Block BlockID
	Key   []byte
}

// CallPayload is a remote runtime invocation: method(callData) evaluated
// against the state at block.
type CallPayload struct {
	Block    BlockID
	Method   string
	CallData []byte
}

// ReadResult is the verified outcome of a ReadPayload. Found distinguishes
// an absent key from a zero-length value, the Go substitute for Option<Bytes>.
type ReadResult struct {
	Value []byte
	Found bool
}

// CallResult is the verified outcome of a CallPayload: the returned bytes
// of the invocation plus a description of the state changes it implied.
type CallResult struct {
	ReturnData []byte
	Changes    map[string][]byte
}

// RequestKind distinguishes the two payload variants a Request can carry.
type RequestKind uint8

const (
	KindRead RequestKind = iota
	KindCall
)

func (k RequestKind) String() string {
	if k == KindCall {
		return "call"
	}
	return "read"
}

// Request is a single queued or in-flight fetch: a monotonically numbered
// job carrying its payload and a one-shot completion sink. Requests are
// constructed only through newReadRequest/newCallRequest, which wire the
// sink to the ResponseHandle returned to the caller.
type Request struct {
	id        uint64
	timestamp mclock.AbsTime
	kind      RequestKind

	read ReadPayload
	call CallPayload

	// accept hands the response proof (and, for calls, the claimed value)
	// to the FetchChecker and delivers the verified payload on success. It
	// is only ever invoked when the response kind matches kind above.
	accept func(checker FetchChecker, proof [][]byte, value []byte) error

	// cancel resolves the sink with ErrFetchCancelled. Called only when
	// the dispatcher itself drops the request (shutdown).
	cancel func()
}

// message returns the logical outbound wire message for this request.
func (r *Request) message() any {
	switch r.kind {
	case KindCall:
		return RemoteCallRequest{ID: r.id, Block: r.call.Block, Method: r.call.Method, CallData: r.call.CallData}
	default:
		return RemoteReadRequest{ID: r.id, Block: r.read.Block, Key: r.read.Key}
	}
}

type result[T any] struct {
	val T
	err error
}

// ResponseHandle is a single-use future handed back on request submission.
// It resolves once the dispatcher delivers a verified payload, or fails
// with ErrFetchCancelled if the dispatcher drops it first.
type ResponseHandle[T any] struct {
	ch chan result[T]
}

func newHandle[T any]() (*ResponseHandle[T], chan result[T]) {
	ch := make(chan result[T], 1)
	return &ResponseHandle[T]{ch: ch}, ch
}

// deliver writes val/err to ch without blocking. A second delivery (the
// sink may already hold one if the consumer never called Wait) is dropped
// silently, matching the "ignore sink-closed" behaviour the completion
// sink is specified to have: at most one delivery is ever observed.
func deliver[T any](ch chan result[T], val T, err error) {
	select {
	case ch <- result[T]{val: val, err: err}:
	default:
	}
}

// Wait blocks until the handle resolves or ctx is cancelled. It may be
// called from any goroutine; distinct handles carry no ordering relative
// to one another.
func (h *ResponseHandle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case r := <-h.ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func newReadRequest(payload ReadPayload) (*Request, *ResponseHandle[ReadResult]) {
	handle, ch := newHandle[ReadResult]()
	req := &Request{
		kind: KindRead,
		read: payload,
		accept: func(checker FetchChecker, proof [][]byte, _ []byte) error {
			value, found, err := checker.CheckReadProof(payload, proof)
			if err != nil {
				return err
			}
			deliver(ch, ReadResult{Value: value, Found: found}, nil)
			return nil
		},
		cancel: func() { deliver(ch, ReadResult{}, ErrFetchCancelled) },
	}
	return req, handle
}

func newCallRequest(payload CallPayload) (*Request, *ResponseHandle[CallResult]) {
	handle, ch := newHandle[CallResult]()
	req := &Request{
		kind: KindCall,
		call: payload,
		accept: func(checker FetchChecker, proof [][]byte, value []byte) error {
			result, err := checker.CheckExecutionProof(payload, value, proof)
			if err != nil {
				return err
			}
			deliver(ch, result, nil)
			return nil
		},
		cancel: func() { deliver(ch, CallResult{}, ErrFetchCancelled) },
	}
	return req, handle
}
