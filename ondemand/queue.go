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

import "container/list"

// requestQueue is the FIFO of requests awaiting a peer. Failed or
// timed-out requests are pushed back at the front so they retry on the
// very next idle peer instead of waiting behind fresh work.
type requestQueue struct {
	l *list.List
}

func newRequestQueue() *requestQueue {
	return &requestQueue{l: list.New()}
}

func (q *requestQueue) pushBack(r *Request) {
	q.l.PushBack(r)
}

func (q *requestQueue) pushFront(r *Request) {
	q.l.PushFront(r)
}

func (q *requestQueue) popFront() (*Request, bool) {
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	q.l.Remove(e)
	return e.Value.(*Request), true
}

func (q *requestQueue) len() int {
	return q.l.Len()
}

// drain empties the queue and returns everything it held, in FIFO order.
// Used only when the dispatcher shuts down.
func (q *requestQueue) drain() []*Request {
	reqs := make([]*Request, 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		reqs = append(reqs, e.Value.(*Request))
	}
	q.l.Init()
	return reqs
}
