// Package notify implements the user-facing notification side channel: an
// asynchronous dispatcher fanning notifications out to sinks.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fitpulse/session-agent/internal/api/metrics"
	"github.com/fitpulse/session-agent/internal/core/domain"
)

const defaultBuffer = 64

// Sink receives notifications from the dispatcher, one at a time.
type Sink interface {
	Emit(ctx context.Context, n domain.Notification)
}

// Dispatcher decouples notification producers from sinks with a buffered
// channel and a single worker. Notify never blocks: when the buffer is full
// the notification is dropped and counted. Close drains whatever is still
// buffered before returning.
type Dispatcher struct {
	sinks     []Sink
	ch        chan domain.Notification
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher starts a dispatcher delivering to the given sinks.
// If buffer <= 0, defaultBuffer is used.
func NewDispatcher(buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		sinks: sinks,
		ch:    make(chan domain.Notification, buffer),
		done:  make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Notify implements ports.Notifier.
func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	if d == nil || d.closed.Load() {
		return
	}
	select {
	case d.ch <- n:
	case <-d.done:
	default:
		d.dropped.Add(1)
	}
}

// Dropped reports how many notifications were discarded on a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting notifications, drains the buffer, and waits for the
// worker to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.ch:
			d.deliver(n)
		case <-d.done:
			for {
				select {
				case n := <-d.ch:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	metrics.NotificationsTotal.WithLabelValues(string(n.Kind)).Inc()
	for _, sink := range d.sinks {
		sink.Emit(context.Background(), n)
	}
}
