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
	"container/list"

	"github.com/ethereum/go-ethereum/common/mclock"
)

// activeEntry is one outstanding request/peer pairing, ordered by the time
// the request was sent so the oldest entry is always at the front.
type activeEntry struct {
	peer   PeerID
	req    *Request
	sentAt mclock.AbsTime
}

// peerRegistry tracks every peer known to the dispatcher, split between
// peers that are idle (available for a new request) and peers that are
// active (currently serving one). Both sets preserve insertion order so
// the dispatcher can always hand work to the longest-idle peer and always
// time out the oldest active request first, with O(1) membership tests
// and O(1) removal by key. Go's standard library has no ordered map, so
// each set is a container/list paired with a side index map from key to
// list element; this is the exact composition recommended as a fallback
// in place of a dedicated ordered-map package.
type peerRegistry struct {
	idle      *list.List
	idleIndex map[PeerID]*list.Element

	active      *list.List
	activeIndex map[PeerID]*list.Element
}

func newPeerRegistry() *peerRegistry {
	return &peerRegistry{
		idle:        list.New(),
		idleIndex:   make(map[PeerID]*list.Element),
		active:      list.New(),
		activeIndex: make(map[PeerID]*list.Element),
	}
}

// addIdle registers peer as available, at the back of the idle queue. A
// peer already tracked (idle or active) is not re-added.
func (r *peerRegistry) addIdle(peer PeerID) {
	if _, ok := r.idleIndex[peer]; ok {
		return
	}
	if _, ok := r.activeIndex[peer]; ok {
		return
	}
	e := r.idle.PushBack(peer)
	r.idleIndex[peer] = e
}

// popIdleFront removes and returns the longest-idle peer, if any.
func (r *peerRegistry) popIdleFront() (PeerID, bool) {
	e := r.idle.Front()
	if e == nil {
		return PeerID{}, false
	}
	peer := e.Value.(PeerID)
	r.idle.Remove(e)
	delete(r.idleIndex, peer)
	return peer, true
}

// pushActive records peer as now serving req, sent at now. peer must not
// already be tracked as idle or active.
func (r *peerRegistry) pushActive(peer PeerID, req *Request, now mclock.AbsTime) {
	e := r.active.PushBack(&activeEntry{peer: peer, req: req, sentAt: now})
	r.activeIndex[peer] = e
}

// remove drops peer from whichever set currently holds it. Safe to call
// on a peer that is tracked in neither set: Dispatcher.onResponse calls it
// for every peer that sent an unknown or mismatched response, which may
// already be gone from both sets, so it must tolerate a no-op removal.
func (r *peerRegistry) remove(peer PeerID) {
	if e, ok := r.idleIndex[peer]; ok {
		r.idle.Remove(e)
		delete(r.idleIndex, peer)
	}
	if e, ok := r.activeIndex[peer]; ok {
		r.active.Remove(e)
		delete(r.activeIndex, peer)
	}
}

// takeActiveIfMatch removes peer from the active set and returns its
// in-flight request, but only if that request's id equals wantID. A
// mismatch (or an untracked/idle peer) returns ok=false and changes
// nothing. On a match the peer is NOT re-idled here: the caller re-idles
// it, and evicts it again if the response then fails verification.
func (r *peerRegistry) takeActiveIfMatch(peer PeerID, wantID uint64) (*Request, bool) {
	e, ok := r.activeIndex[peer]
	if !ok {
		return nil, false
	}
	entry := e.Value.(*activeEntry)
	if entry.req.id != wantID {
		return nil, false
	}
	r.active.Remove(e)
	delete(r.activeIndex, peer)
	return entry.req, true
}

// popExpiredFront returns the oldest active entry if it was sent at or
// before deadline, removing it from the active set. Repeated calls drain
// every entry older than deadline, since the active list stays ordered
// by send time.
func (r *peerRegistry) popExpiredFront(deadline mclock.AbsTime) (PeerID, *Request, bool) {
	e := r.active.Front()
	if e == nil {
		return PeerID{}, nil, false
	}
	entry := e.Value.(*activeEntry)
	if entry.sentAt > deadline {
		return PeerID{}, nil, false
	}
	r.active.Remove(e)
	delete(r.activeIndex, entry.peer)
	return entry.peer, entry.req, true
}

// takeActive removes peer from the active set unconditionally (no id
// check) and returns the request it was serving, if it was active at all.
// Used when evicting a peer whose response failed to match any
// outstanding id: the bound request still needs to be requeued even
// though it did not answer the mismatched response.
func (r *peerRegistry) takeActive(peer PeerID) (*Request, bool) {
	e, ok := r.activeIndex[peer]
	if !ok {
		return nil, false
	}
	entry := e.Value.(*activeEntry)
	r.active.Remove(e)
	delete(r.activeIndex, peer)
	return entry.req, true
}

// drainActive removes every active entry and returns the requests they
// were serving, in send order. Used only on dispatcher shutdown.
func (r *peerRegistry) drainActive() []*Request {
	reqs := make([]*Request, 0, r.active.Len())
	for e := r.active.Front(); e != nil; e = e.Next() {
		reqs = append(reqs, e.Value.(*activeEntry).req)
	}
	r.active.Init()
	r.activeIndex = make(map[PeerID]*list.Element)
	return reqs
}

func (r *peerRegistry) idleLen() int   { return r.idle.Len() }
func (r *peerRegistry) activeLen() int { return r.active.Len() }
