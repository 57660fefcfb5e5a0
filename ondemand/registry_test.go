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
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
)

func TestPeerRegistryIdleFIFO(t *testing.T) {
	r := newPeerRegistry()
	r.addIdle(testPeer(0))
	r.addIdle(testPeer(1))
	r.addIdle(testPeer(2))

	if p, ok := r.popIdleFront(); !ok || p != testPeer(0) {
		t.Fatalf("popIdleFront = %v, %v, want peer0, true", p, ok)
	}
	if r.idleLen() != 2 {
		t.Fatalf("idleLen = %d, want 2", r.idleLen())
	}
}

func TestPeerRegistryAddIdleIgnoresDuplicate(t *testing.T) {
	r := newPeerRegistry()
	r.addIdle(testPeer(0))
	r.addIdle(testPeer(0))
	if r.idleLen() != 1 {
		t.Fatalf("idleLen = %d, want 1 (duplicate add ignored)", r.idleLen())
	}
}

func TestPeerRegistryActiveOrderedByInsertion(t *testing.T) {
	r := newPeerRegistry()
	r.pushActive(testPeer(0), &Request{id: 0}, mclock.AbsTime(10))
	r.pushActive(testPeer(1), &Request{id: 1}, mclock.AbsTime(20))

	peer, req, ok := r.popExpiredFront(mclock.AbsTime(15))
	if !ok || peer != testPeer(0) || req.id != 0 {
		t.Fatalf("popExpiredFront(15) = %v, %v, %v, want peer0, req0, true", peer, req, ok)
	}
	// peer1 was sent at 20, which is after the 15 deadline: not expired yet.
	if _, _, ok := r.popExpiredFront(mclock.AbsTime(15)); ok {
		t.Fatal("popExpiredFront returned an entry newer than the deadline")
	}
}

func TestPeerRegistryTakeActiveIfMatch(t *testing.T) {
	r := newPeerRegistry()
	req := &Request{id: 7}
	r.pushActive(testPeer(0), req, mclock.AbsTime(0))

	if _, ok := r.takeActiveIfMatch(testPeer(0), 8); ok {
		t.Fatal("takeActiveIfMatch matched the wrong id")
	}
	if r.activeLen() != 1 {
		t.Fatal("failed match must not remove the entry")
	}

	got, ok := r.takeActiveIfMatch(testPeer(0), 7)
	if !ok || got != req {
		t.Fatalf("takeActiveIfMatch = %v, %v, want req, true", got, ok)
	}
	if r.activeLen() != 0 {
		t.Fatal("matched entry was not removed")
	}
}

func TestPeerRegistryRemoveIsIdempotent(t *testing.T) {
	r := newPeerRegistry()
	r.addIdle(testPeer(0))
	r.remove(testPeer(0))
	r.remove(testPeer(0)) // must tolerate a redundant removal
	if r.idleLen() != 0 || r.activeLen() != 0 {
		t.Fatal("peer still tracked after remove")
	}
}

func TestPeerRegistryDrainActive(t *testing.T) {
	r := newPeerRegistry()
	r.pushActive(testPeer(0), &Request{id: 0}, mclock.AbsTime(0))
	r.pushActive(testPeer(1), &Request{id: 1}, mclock.AbsTime(1))

	drained := r.drainActive()
	if len(drained) != 2 {
		t.Fatalf("drainActive returned %d requests, want 2", len(drained))
	}
	if r.activeLen() != 0 {
		t.Fatal("active set non-empty after drain")
	}
}

func TestPeerRegistryPopExpiredFrontEmpty(t *testing.T) {
	r := newPeerRegistry()
	if _, _, ok := r.popExpiredFront(mclock.AbsTime(time.Hour.Nanoseconds())); ok {
		t.Fatal("popExpiredFront on empty active set returned ok=true")
	}
}
