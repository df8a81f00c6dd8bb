package authcore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// auditDispatcher decouples engine flows from sink latency. Events go
// into a buffered channel consumed by a single goroutine; when the buffer
// is full the event is either dropped (counted) or delivered inline,
// depending on configuration.
type auditDispatcher struct {
	sink       AuditSink
	events     chan AuditEvent
	dropIfFull bool
	dropped    atomic.Uint64
	closed     atomic.Bool
	closeOnce  sync.Once
	done       chan struct{}
}

func newAuditDispatcher(sink AuditSink, bufferSize int, dropIfFull bool) *auditDispatcher {
	if bufferSize < 1 {
		bufferSize = 1
	}
	d := &auditDispatcher{
		sink:       sink,
		events:     make(chan AuditEvent, bufferSize),
		dropIfFull: dropIfFull,
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *auditDispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		d.sink.Emit(context.Background(), event)
	}
}

// emit queues event for delivery. Never blocks when dropIfFull is set.
// Events emitted after close are counted as dropped.
func (d *auditDispatcher) emit(event AuditEvent) {
	if d.closed.Load() {
		d.dropped.Add(1)
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if d.dropIfFull {
		select {
		case d.events <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}
	d.events <- event
}

// droppedCount reports how many events were lost to a full buffer.
func (d *auditDispatcher) droppedCount() uint64 {
	return d.dropped.Load()
}

// close stops intake and drains queued events before returning.
func (d *auditDispatcher) close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.events)
		<-d.done
	})
}
