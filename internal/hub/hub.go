// Package hub fans persisted access events out to connected websocket
// observers.  Membership and delivery are owned by a single goroutine;
// callers interact through channels only, so a publish can never race a
// register or deadlock on a dead connection.
package hub

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Hub holds the set of live observers and broadcasts serialized messages
// to all of them.  Delivery is at-most-once per observer: an observer
// whose outbound buffer is full is dropped rather than slowing the rest.
type Hub struct {
	logger *slog.Logger

	register   chan *Observer
	unregister chan *Observer
	broadcast  chan []byte

	observers map[*Observer]struct{}
	count     atomic.Int64
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *Observer),
		unregister: make(chan *Observer),
		broadcast:  make(chan []byte, 256),
		observers:  make(map[*Observer]struct{}),
	}
}

// Run serves membership and broadcast until ctx is cancelled.  On exit all
// observers are closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case o := <-h.register:
			h.observers[o] = struct{}{}
			h.count.Store(int64(len(h.observers)))
			h.logger.Info("observer connected", "observers", len(h.observers))

		case o := <-h.unregister:
			h.drop(o)

		case msg := <-h.broadcast:
			for o := range h.observers {
				select {
				case o.send <- msg:
				default:
					// Observer not draining its buffer; cut it loose so
					// the others keep receiving in order.
					h.logger.Warn("observer send buffer full, dropping observer")
					h.drop(o)
				}
			}

		case <-ctx.Done():
			for o := range h.observers {
				h.drop(o)
			}
			return
		}
	}
}

// Publish queues msg for delivery to every currently-connected observer.
// Observers that register after this call may miss the message; there is
// no replay.
func (h *Hub) Publish(msg []byte) {
	h.broadcast <- msg
}

// Register adds an observer to the membership set.
func (h *Hub) Register(o *Observer) {
	h.register <- o
}

// Unregister removes an observer; safe to call for one already dropped.
func (h *Hub) Unregister(o *Observer) {
	h.unregister <- o
}

// Observers reports the current membership size.
func (h *Hub) Observers() int {
	return int(h.count.Load())
}

func (h *Hub) drop(o *Observer) {
	if _, ok := h.observers[o]; !ok {
		return
	}
	delete(h.observers, o)
	h.count.Store(int64(len(h.observers)))
	close(o.send)
	h.logger.Info("observer disconnected", "observers", len(h.observers))
}
