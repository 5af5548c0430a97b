// registry.go
// The Registry is the only shared mutable state in the relay: a mapping
// from client id to the write half of that client's connection. All
// access runs under one mutex, including the writes a broadcast sweep
// performs, so a sweep sees a consistent snapshot of the entry set and
// write halves are never touched concurrently. The price is that one
// slow peer stalls the sweep for everyone behind it.

package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNotConnected reports a send to an id with no live registry entry.
var ErrNotConnected = errors.New("client not connected")

// WriteFailure is emitted when writing to a client fails during a send
// or broadcast sweep. Failures are connection-local: the client stays
// registered and the sweep carries on with the remaining entries.
type WriteFailure struct {
	ClientID uint64
	Err      error
}

const failureBufferSize = 64

type Registry struct {
	mu       sync.Mutex
	conns    map[uint64]io.Writer
	failures chan WriteFailure
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[uint64]io.Writer),
		failures: make(chan WriteFailure, failureBufferSize),
	}
}

// Failures delivers write failures to whoever reports them. Events are
// dropped when the consumer lags; reporting must never stall a sweep.
func (r *Registry) Failures() <-chan WriteFailure {
	return r.failures
}

// Register inserts the write half for id. Ids come from remote ports,
// unique among live connections, so a collision means the previous
// entry is stale; it is silently replaced.
func (r *Registry) Register(id uint64, w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = w
}

// Deregister removes the entry for id. Removing an absent id is a no-op.
func (r *Registry) Deregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Len reports the number of live clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// SendTo writes p to the client registered under id. It returns
// ErrNotConnected when id is absent, and the wrapped write error when
// the write itself fails.
func (r *Registry) SendTo(id uint64, p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.conns[id]
	if !ok {
		return ErrNotConnected
	}
	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("write to client %d: %w", id, err)
	}
	return nil
}

// Broadcast delivers payload to every registered client except the
// sender, which receives the acknowledgement line instead. The entry
// set is whatever is registered when the sweep starts. Per-client
// write failures go to the failure channel and the sweep moves on, so
// one broken peer never costs the others their delivery.
func (r *Registry) Broadcast(senderID uint64, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, w := range r.conns {
		out := payload
		if id == senderID {
			out = ackMessage
		}
		if _, err := w.Write(out); err != nil {
			select {
			case r.failures <- WriteFailure{ClientID: id, Err: err}:
			default:
			}
		}
	}
}
