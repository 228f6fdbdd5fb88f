package client

import (
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// Relay forwards server-pushed notifications from the protocol client's
// callback context onto an ordered queue consumed by the session loop.
//
// Handle never blocks: the protocol library's dispatch path must not stall on
// a slow or absent consumer, so the queue is unbounded. After Close, Handle
// silently drops events — once the session is torn down there is nothing left
// to render to.
type Relay struct {
	mu     sync.Mutex
	queue  []mcp.JSONRPCNotification
	ready  chan struct{}
	closed bool
}

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{ready: make(chan struct{}, 1)}
}

// Handle enqueues one notification. Registered via OnNotification; called
// from the protocol client's goroutine.
func (r *Relay) Handle(n mcp.JSONRPCNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.queue = append(r.queue, n)
	r.signal()
}

// Ready returns a channel that is signalled while the queue is non-empty.
// Wait on it in a select; then call Next to take one notification.
func (r *Relay) Ready() <-chan struct{} {
	return r.ready
}

// Next pops the oldest queued notification. Re-arms the ready signal when
// more remain, so consumers take exactly one event per wakeup.
func (r *Relay) Next() (mcp.JSONRPCNotification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return mcp.JSONRPCNotification{}, false
	}
	n := r.queue[0]
	r.queue = r.queue[1:]
	if len(r.queue) > 0 {
		r.signal()
	}
	return n, true
}

// Len reports the number of queued notifications.
func (r *Relay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Close drops the queue and turns further Handle calls into no-ops.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.queue = nil
}

// signal must be called with r.mu held.
func (r *Relay) signal() {
	select {
	case r.ready <- struct{}{}:
	default:
	}
}
