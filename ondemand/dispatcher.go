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
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

// Dispatcher mediates between a light client, which holds no local state,
// and a pool of remote peers that do. It owns the request queue and peer
// registry behind a single mutex; every public method mutates state and
// then re-runs dispatch before releasing the lock, so that new capacity
// (a returned peer, a freshly submitted request) is always consumed
// promptly.
//
// A Dispatcher runs no network I/O itself. Outbound sends are delegated to
// a PeerTransport obtained through a resolver function, so a Dispatcher
// never holds a strong reference back to the network layer that owns it.
type Dispatcher struct {
	mu sync.Mutex

	checker FetchChecker
	clock   mclock.Clock
	resolve TransportResolver
	cfg     Config
	log     log.Logger

	registry  *peerRegistry
	queue     *requestQueue
	peerRoles map[PeerID]Role

	nextID atomic.Uint64

	metrics *dispatcherMetrics

	quit      chan struct{}
	closeOnce sync.Once
	timer     mclock.Timer
}

// NewDispatcher builds a Dispatcher with the default Config. checker
// verifies returned proofs; clock is the time source (mclock.System{} in
// production, mclock.Simulated{} in tests); resolve yields the live
// PeerTransport, or nil once the network layer that owns it is gone.
func NewDispatcher(checker FetchChecker, clock mclock.Clock, resolve TransportResolver) *Dispatcher {
	return NewDispatcherWithConfig(checker, clock, resolve, DefaultConfig())
}

// NewDispatcherWithConfig is NewDispatcher with an explicit Config,
// primarily useful in tests that want a shorter RequestTimeout or
// MaintainInterval than the production default.
func NewDispatcherWithConfig(checker FetchChecker, clock mclock.Clock, resolve TransportResolver, cfg Config) *Dispatcher {
	return &Dispatcher{
		checker:   checker,
		clock:     clock,
		resolve:   resolve,
		cfg:       cfg,
		log:       log.New("module", "ondemand"),
		registry:  newPeerRegistry(),
		queue:     newRequestQueue(),
		peerRoles: make(map[PeerID]Role),
		metrics:   newDispatcherMetrics(metrics.NewRegistry()),
		quit:      make(chan struct{}),
	}
}

// Start launches the background maintenance loop: every cfg.MaintainInterval
// it calls Maintain and disconnects whatever peers it evicts. Callers that
// would rather drive eviction themselves (e.g. on their own scheduler) can
// skip Start and call Maintain directly instead, as OnDemandService's
// maintain(io) is invoked by its embedding service.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduleMaintainLocked(d.cfg.MaintainInterval)
}

// scheduleMaintainLocked arms the next maintenance timer and stores it in
// d.timer. Must be called with d.mu held, since the timer callback below
// re-enters it under lock and Stop reads/stops d.timer under the same
// lock — d.timer is otherwise shared, unsynchronized state between this
// goroutine and whichever one calls Stop.
func (d *Dispatcher) scheduleMaintainLocked(interval time.Duration) {
	d.timer = d.clock.AfterFunc(interval, func() {
		// Maintain already disconnects each evicted peer via the
		// transport resolver; the returned ids are for callers driving
		// their own maintenance loop instead of using Start.
		d.Maintain()

		d.mu.Lock()
		defer d.mu.Unlock()
		select {
		case <-d.quit:
			return
		default:
		}
		d.scheduleMaintainLocked(interval)
	})
}

// Stop halts the maintenance loop and drops every pending and active
// request, delivering ErrFetchCancelled to each of their ResponseHandles.
// Idempotent: calling Stop more than once is a no-op after the first call.
func (d *Dispatcher) Stop() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		close(d.quit)
		if d.timer != nil {
			d.timer.Stop()
		}
		for _, req := range d.queue.drain() {
			req.cancel()
		}
		for _, req := range d.registry.drainActive() {
			req.cancel()
		}
		d.updateGaugesLocked()
	})
}

func (d *Dispatcher) nextRequestID() uint64 {
	return d.nextID.Add(1) - 1
}

// SubmitRead queues a storage-read request and returns a handle that
// resolves once some peer's proof has been verified.
func (d *Dispatcher) SubmitRead(payload ReadPayload) *ResponseHandle[ReadResult] {
	req, handle := newReadRequest(payload)
	d.enqueue(req)
	return handle
}

// SubmitCall queues a runtime-call request and returns a handle that
// resolves once some peer's execution proof has been verified.
func (d *Dispatcher) SubmitCall(payload CallPayload) *ResponseHandle[CallResult] {
	req, handle := newCallRequest(payload)
	d.enqueue(req)
	return handle
}

func (d *Dispatcher) enqueue(req *Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req.id = d.nextRequestID()
	req.timestamp = d.clock.Now()
	d.queue.pushBack(req)
	d.log.Trace("ondemand: request submitted", "kind", req.kind, "id", req.id)
	d.dispatchLocked()
}

// OnConnect admits peer into the idle set if its role can serve on-demand
// requests. Light peers are ignored: they hold no state of their own and
// cannot answer a read or call request.
func (d *Dispatcher) OnConnect(peer PeerID, role Role) {
	if !role.CanServe() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peerRoles[peer] = role
	d.registry.addIdle(peer)
	d.log.Trace("ondemand: peer connected", "peer", peer, "role", role)
	d.dispatchLocked()
}

// OnDisconnect drops peer from whichever set holds it. If peer was
// actively serving a request, that request is pushed to the front of the
// pending queue so it retries immediately on the next idle peer.
func (d *Dispatcher) OnDisconnect(peer PeerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.peerRoles, peer)
	if req, ok := d.registry.takeActive(peer); ok {
		d.queue.pushFront(req)
	}
	d.registry.remove(peer)
	d.log.Trace("ondemand: peer disconnected", "peer", peer)
	d.dispatchLocked()
}

// Maintain evicts every peer at the front of the active set whose request
// was dispatched more than cfg.RequestTimeout ago, requeues each evicted
// request at the pending queue's front, and returns the evicted peer ids
// so the caller can disconnect them at the transport layer. Dispatcher
// itself already calls PeerTransport.DisconnectPeer for every peer it
// evicts; the returned slice exists so a caller driving its own
// maintenance loop (rather than using Start) can react as well.
func (d *Dispatcher) Maintain() []PeerID {
	d.mu.Lock()
	defer d.mu.Unlock()

	deadline := d.clock.Now().Add(-d.cfg.RequestTimeout)
	var evicted []PeerID
	for {
		peer, req, ok := d.registry.popExpiredFront(deadline)
		if !ok {
			break
		}
		delete(d.peerRoles, peer)
		d.queue.pushFront(req)
		d.disconnectLocked(peer)
		d.metrics.requestsEvicted.Mark(1)
		d.log.Debug("ondemand: peer timed out", "peer", peer, "id", req.id)
		evicted = append(evicted, peer)
	}
	d.dispatchLocked()
	return evicted
}

// OnRemoteReadResponse feeds an inbound read-proof response into the
// dispatcher's response protocol.
func (d *Dispatcher) OnRemoteReadResponse(peer PeerID, id uint64, proof [][]byte) {
	d.onResponse(peer, id, KindRead, nil, proof)
}

// OnRemoteCallResponse feeds an inbound call-execution response into the
// dispatcher's response protocol.
func (d *Dispatcher) OnRemoteCallResponse(peer PeerID, id uint64, value []byte, proof [][]byte) {
	d.onResponse(peer, id, KindCall, value, proof)
}

// onResponse implements the response-handling protocol: look up the
// claimed peer/id pair, evict on any mismatch, otherwise verify and
// either deliver or evict-and-requeue on verification failure.
func (d *Dispatcher) onResponse(peer PeerID, id uint64, kind RequestKind, value []byte, proof [][]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	req, ok := d.registry.takeActiveIfMatch(peer, id)
	if !ok {
		// Unknown peer, or a response id that does not match what this
		// peer was sent: the peer is misbehaving. registry.remove is
		// called unconditionally as a guard against a response racing an
		// in-flight OnDisconnect for the same peer; it is a deliberate
		// no-op in that case.
		violation := error(errUnknownPeer)
		if bound, hadActive := d.registry.takeActive(peer); hadActive {
			violation = errIDMismatch
			d.queue.pushFront(bound)
		}
		d.log.Debug("ondemand: response protocol violation", "peer", peer, "id", id, "err", violation)
		d.registry.remove(peer)
		delete(d.peerRoles, peer)
		d.disconnectLocked(peer)
		d.metrics.requestsEvicted.Mark(1)
		d.dispatchLocked()
		return
	}

	// The peer answered with the id it was sent, so it behaved at the
	// protocol level: return it to idle before verification runs. If
	// verification or the response kind turns out to be wrong below, this
	// is undone by evicting the peer, which removes it from idle again.
	d.registry.addIdle(peer)

	if req.kind != kind {
		d.log.Debug("ondemand: response protocol violation", "peer", peer, "id", id, "want", req.kind, "got", kind, "err", errKindMismatch)
		d.evictRespondingPeerLocked(peer, req)
		return
	}

	if err := req.accept(d.checker, proof, value); err != nil {
		d.log.Debug("ondemand: response failed verification", "peer", peer, "id", id, "err", err)
		d.evictRespondingPeerLocked(peer, req)
		return
	}

	d.metrics.requestsDelivered.Mark(1)
	d.dispatchLocked()
}

// evictRespondingPeerLocked undoes the tentative re-idle performed in
// onResponse and evicts peer for a kind mismatch or failed verification,
// requeueing req at the pending queue's front.
func (d *Dispatcher) evictRespondingPeerLocked(peer PeerID, req *Request) {
	d.registry.remove(peer)
	delete(d.peerRoles, peer)
	d.disconnectLocked(peer)
	d.queue.pushFront(req)
	d.metrics.requestsEvicted.Mark(1)
	d.dispatchLocked()
}

func (d *Dispatcher) disconnectLocked(peer PeerID) {
	if t := d.resolve(); t != nil {
		t.DisconnectPeer(peer)
	}
}

// dispatchLocked pairs pending requests with idle peers until either set
// runs dry. Must be called with d.mu held.
func (d *Dispatcher) dispatchLocked() {
	defer d.updateGaugesLocked()

	transport := d.resolve()
	if transport == nil {
		return
	}
	for d.queue.len() > 0 {
		peer, ok := d.registry.popIdleFront()
		if !ok {
			break
		}
		req, ok := d.queue.popFront()
		if !ok {
			d.registry.addIdle(peer)
			break
		}
		now := d.clock.Now()
		req.timestamp = now
		if err := transport.SendMessage(peer, req.message()); err != nil {
			d.log.Debug("ondemand: send failed", "peer", peer, "id", req.id, "err", err)
		}
		d.registry.pushActive(peer, req, now)
	}
}

func (d *Dispatcher) updateGaugesLocked() {
	d.metrics.peersIdle.Update(int64(d.registry.idleLen()))
	d.metrics.peersActive.Update(int64(d.registry.activeLen()))
	d.metrics.queuePending.Update(int64(d.queue.len()))
}
