package control

import (
	"sync"
	"sync/atomic"
)

// streamBuffer is how many events a stream client may lag behind before
// further events are dropped for it.
const streamBuffer = 64

// Stream is one client's subscription to the broker. Events arrive on C,
// which is closed when the stream or the broker closes.
type Stream struct {
	C <-chan Event

	ch      chan Event
	broker  *Broker
	dropped atomic.Uint64
}

// Close detaches the stream from the broker. Safe to call more than once,
// and after the broker closed.
func (st *Stream) Close() {
	st.broker.detach(st)
}

// Dropped reports how many events were skipped because the client lagged.
func (st *Stream) Dropped() uint64 {
	return st.dropped.Load()
}

// Broker fans change events out to the connected stream clients. Publish
// never blocks on a slow client.
type Broker struct {
	mu      sync.Mutex
	streams map[*Stream]struct{}
	closed  bool
}

// NewBroker creates a broker with no clients.
func NewBroker() *Broker {
	return &Broker{streams: make(map[*Stream]struct{})}
}

// Subscribe attaches a new stream. Once the broker is closed the returned
// stream is already closed, so a late client sees its channel end.
func (b *Broker) Subscribe() *Stream {
	ch := make(chan Event, streamBuffer)
	st := &Stream{C: ch, ch: ch, broker: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return st
	}
	b.streams[st] = struct{}{}
	return st
}

func (b *Broker) detach(st *Stream) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.streams[st]; !ok {
		return
	}
	delete(b.streams, st)
	close(st.ch)
}

// Publish queues evt on every stream that has room.
func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for st := range b.streams {
		select {
		case st.ch <- evt:
		default:
			st.dropped.Add(1)
		}
	}
}

// Len returns the number of attached streams.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.streams)
}

// Close ends every stream and refuses new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for st := range b.streams {
		close(st.ch)
	}
	clear(b.streams)
}
