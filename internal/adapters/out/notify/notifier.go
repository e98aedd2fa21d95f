// Package notify provides an asynchronous, best-effort publisher for
// dispatch progress events. Delivery is fire-and-forget: a slow or absent
// consumer never blocks the command path, and events are dropped (with a
// log line) when the buffer is full.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/ports"
)

// AsyncNotifier fans dispatch events out to a consumer callback from a
// single background worker goroutine.
type AsyncNotifier struct {
	events   chan ports.DispatchEvent
	consumer func(ports.DispatchEvent)
	logger   *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewAsyncNotifier creates a notifier with the given buffer size.
// The consumer callback receives events sequentially on the worker
// goroutine; a nil consumer means events are logged and discarded.
func NewAsyncNotifier(bufferSize int, consumer func(ports.DispatchEvent), logger *slog.Logger) *AsyncNotifier {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &AsyncNotifier{
		events:   make(chan ports.DispatchEvent, bufferSize),
		consumer: consumer,
		logger:   logger.With("component", "notifier"),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. Safe to call once; subsequent calls
// are no-ops.
func (n *AsyncNotifier) Start() {
	n.startOnce.Do(func() {
		go n.run()
	})
}

// Stop closes the event channel and waits for the worker to drain it.
func (n *AsyncNotifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.events)
		<-n.done
	})
}

// Notify enqueues an event without blocking. Events arriving after Stop or
// when the buffer is full are dropped.
func (n *AsyncNotifier) Notify(event ports.DispatchEvent) {
	defer func() {
		// Sends race with Stop closing the channel; a dropped event is
		// acceptable during shutdown.
		if recover() != nil {
			n.logDrop(event, "notifier stopped")
		}
	}()

	select {
	case n.events <- event:
	default:
		n.logDrop(event, "buffer full")
	}
}

func (n *AsyncNotifier) run() {
	defer close(n.done)
	for event := range n.events {
		if n.consumer == nil {
			n.logger.InfoContext(context.Background(), "Dispatch event",
				"assignment_id", event.AssignmentID.String(),
				"order_id", event.OrderID.String(),
				"courier_id", event.CourierID.String(),
				"status", event.Status,
			)
			continue
		}
		n.consumer(event)
	}
}

func (n *AsyncNotifier) logDrop(event ports.DispatchEvent, reason string) {
	n.logger.WarnContext(context.Background(), "Dispatch event dropped",
		"assignment_id", event.AssignmentID.String(),
		"status", event.Status,
		"reason", reason,
	)
}
