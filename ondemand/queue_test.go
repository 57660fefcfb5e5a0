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

import "testing"

func TestRequestQueueFIFO(t *testing.T) {
	q := newRequestQueue()
	a := &Request{id: 1}
	b := &Request{id: 2}
	c := &Request{id: 3}

	q.pushBack(a)
	q.pushBack(b)
	q.pushBack(c)

	if got, ok := q.popFront(); !ok || got.id != 1 {
		t.Fatalf("popFront = %v, %v, want 1, true", got, ok)
	}
	if got, ok := q.popFront(); !ok || got.id != 2 {
		t.Fatalf("popFront = %v, %v, want 2, true", got, ok)
	}
	if q.len() != 1 {
		t.Fatalf("len = %d, want 1", q.len())
	}
}

func TestRequestQueuePushFrontRetriesNext(t *testing.T) {
	q := newRequestQueue()
	a := &Request{id: 1}
	b := &Request{id: 2}

	q.pushBack(a)
	q.pushFront(b)

	got, ok := q.popFront()
	if !ok || got.id != 2 {
		t.Fatalf("popFront = %v, %v, want 2, true", got, ok)
	}
}

func TestRequestQueuePopFrontEmpty(t *testing.T) {
	q := newRequestQueue()
	if _, ok := q.popFront(); ok {
		t.Fatal("popFront on empty queue returned ok=true")
	}
}

func TestRequestQueueDrain(t *testing.T) {
	q := newRequestQueue()
	q.pushBack(&Request{id: 1})
	q.pushBack(&Request{id: 2})

	drained := q.drain()
	if len(drained) != 2 || drained[0].id != 1 || drained[1].id != 2 {
		t.Fatalf("drain = %v, want [1, 2] in order", drained)
	}
	if q.len() != 0 {
		t.Fatalf("len after drain = %d, want 0", q.len())
	}
}
