// Package queue provides the bounded lock-free handoff between the decode
// path and event consumers. Push never blocks: a full ring drops the event
// and counts the drop, favoring stream freshness over delivery guarantees.
// Pop never blocks: it reports empty instead of waiting.
package queue

import (
	"runtime"
	"sync/atomic"

	"sol-dex-stream/internal/event"
)

// Ring is a fixed-capacity multi-producer multi-consumer ring buffer.
// Each slot carries a sequence stamp; producers and consumers claim slots
// by compare-and-swap on the head and tail counters, so no external lock
// is ever needed.
type Ring struct {
	mask uint64
	_    [7]uint64

	head uint64 // next slot to push
	_    [7]uint64

	tail uint64 // next slot to pop
	_    [7]uint64

	dropped uint64

	slots []slot
}

type slot struct {
	seq uint64
	ev  event.Event
}

// NewRing returns a ring holding up to capacity events. Capacity is
// rounded up to the next power of two, with a floor of 2.
func NewRing(capacity int) *Ring {
	n := 2
	for n < capacity {
		n <<= 1
	}
	r := &Ring{
		mask:  uint64(n - 1),
		slots: make([]slot, n),
	}
	for i := range r.slots {
		r.slots[i].seq = uint64(i)
	}
	return r
}

// Cap returns the ring's fixed capacity.
func (r *Ring) Cap() int {
	return int(r.mask) + 1
}

// Push offers an event to the ring. It returns false, and increments the
// drop counter, when the ring is full. Safe for concurrent producers.
func (r *Ring) Push(ev event.Event) bool {
	pos := atomic.LoadUint64(&r.head)
	for {
		s := &r.slots[pos&r.mask]
		seq := atomic.LoadUint64(&s.seq)
		switch {
		case seq == pos:
			if atomic.CompareAndSwapUint64(&r.head, pos, pos+1) {
				s.ev = ev
				atomic.StoreUint64(&s.seq, pos+1)
				return true
			}
			pos = atomic.LoadUint64(&r.head)
		case seq < pos:
			// The slot still holds an unconsumed event one lap behind.
			atomic.AddUint64(&r.dropped, 1)
			return false
		default:
			pos = atomic.LoadUint64(&r.head)
		}
	}
}

// Pop removes the oldest event, or returns (nil, false) when the ring is
// empty. Safe for concurrent consumers.
func (r *Ring) Pop() (event.Event, bool) {
	pos := atomic.LoadUint64(&r.tail)
	for {
		s := &r.slots[pos&r.mask]
		seq := atomic.LoadUint64(&s.seq)
		switch {
		case seq == pos+1:
			if atomic.CompareAndSwapUint64(&r.tail, pos, pos+1) {
				ev := s.ev
				s.ev = nil
				atomic.StoreUint64(&s.seq, pos+r.mask+1)
				return ev, true
			}
			pos = atomic.LoadUint64(&r.tail)
		case seq < pos+1:
			return nil, false
		default:
			pos = atomic.LoadUint64(&r.tail)
		}
	}
}

// Len returns a point-in-time estimate of queued events.
func (r *Ring) Len() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if head < tail {
		return 0
	}
	return int(head - tail)
}

// Dropped returns the number of events rejected on a full ring.
func (r *Ring) Dropped() uint64 {
	return atomic.LoadUint64(&r.dropped)
}

// Consume polls the ring until stop returns true, invoking fn for every
// event. While the ring is empty it spins a bounded number of times to
// keep latency low under load, then yields to the scheduler so an idle
// stream does not pin a core.
func (r *Ring) Consume(fn func(event.Event), stop func() bool) {
	const spinBudget = 100
	spins := 0
	for {
		if ev, ok := r.Pop(); ok {
			fn(ev)
			spins = 0
			continue
		}
		if stop() {
			return
		}
		spins++
		if spins >= spinBudget {
			spins = 0
			runtime.Gosched()
		}
	}
}
