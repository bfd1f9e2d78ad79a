package host

import (
	"sync"

	"github.com/entrhq/hypergx/pkg/tabs"
)

// EventBuffer is the channel depth of an EventStream.
const EventBuffer = 64

// EventStream is the per-view event channel. Emit after Close is a no-op.
type EventStream struct {
	mu     sync.Mutex
	ch     chan tabs.Event
	closed bool
}

// NewEventStream creates an open stream.
func NewEventStream() *EventStream {
	return &EventStream{ch: make(chan tabs.Event, EventBuffer)}
}

// Emit queues ev. It blocks while the buffer is full; the consumer is
// expected to drain until the channel closes.
func (s *EventStream) Emit(ev tabs.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- ev
}

// C returns the receive side.
func (s *EventStream) C() <-chan tabs.Event {
	return s.ch
}

// Close closes the channel once.
func (s *EventStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// CommandQueue runs view commands one at a time, in the order pushed, on
// its own goroutine.
type CommandQueue struct {
	ch       chan func()
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// NewCommandQueue starts the worker goroutine.
func NewCommandQueue() *CommandQueue {
	q := &CommandQueue{
		ch:       make(chan func(), 32),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *CommandQueue) run() {
	defer close(q.finished)
	for {
		select {
		case <-q.done:
			return
		case fn := <-q.ch:
			fn()
		}
	}
}

// Push enqueues fn. It returns false once the queue is stopped.
func (q *CommandQueue) Push(fn func()) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- fn:
		return true
	case <-q.done:
		return false
	}
}

// Stop ends the worker after the command in flight and drops queued
// ones. It does not wait; use Wait for that.
func (q *CommandQueue) Stop() {
	q.once.Do(func() {
		close(q.done)
	})
}

// Wait blocks until the worker has exited.
func (q *CommandQueue) Wait() {
	<-q.finished
}
