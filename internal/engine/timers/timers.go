// Package timers provides a cooperative, single-threaded timer queue.
//
// Callbacks never run on their own goroutine: the frame loop calls Advance
// at the start of every frame and due callbacks fire there, in deadline
// order. This keeps every state mutation on the main (GL) thread.
package timers

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// ID identifies a scheduled callback.
type ID uint64

type entry struct {
	id       ID
	deadline time.Time
	seq      uint64
	fn       func(now time.Time)
	dead     bool
}

// Scheduler is a min-heap of pending callbacks keyed by deadline.
type Scheduler struct {
	queue  *heap.Heap[*entry]
	live   map[ID]*entry
	now    time.Time
	nextID ID
	seq    uint64
}

// New creates a scheduler whose clock starts at now.
func New(now time.Time) *Scheduler {
	return &Scheduler{
		queue: heap.New(func(a, b *entry) bool {
			if a.deadline.Equal(b.deadline) {
				return a.seq < b.seq
			}
			return a.deadline.Before(b.deadline)
		}),
		live: make(map[ID]*entry),
		now:  now,
	}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to run once the clock passes now+d.
func (s *Scheduler) After(d time.Duration, fn func(now time.Time)) ID {
	return s.At(s.now.Add(d), fn)
}

// At schedules fn for an absolute deadline.
func (s *Scheduler) At(deadline time.Time, fn func(now time.Time)) ID {
	s.nextID++
	s.seq++
	e := &entry{id: s.nextID, deadline: deadline, seq: s.seq, fn: fn}
	s.live[e.id] = e
	s.queue.Push(e)
	return e.id
}

// Cancel drops a pending callback. Cancelling an unknown or already fired
// ID is a no-op.
func (s *Scheduler) Cancel(id ID) {
	if e, ok := s.live[id]; ok {
		e.dead = true
		delete(s.live, id)
	}
}

// Pending returns the number of callbacks still waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.live)
}

// Advance moves the clock to now and fires every due callback. Callbacks
// scheduled from inside a callback fire in the same Advance if they are
// already due. A clock that goes backwards does not rewind the scheduler.
// Returns the number of callbacks fired.
func (s *Scheduler) Advance(now time.Time) int {
	if now.After(s.now) {
		s.now = now
	}

	fired := 0
	for {
		next, ok := s.queue.Peek()
		if !ok || next.deadline.After(s.now) {
			break
		}
		s.queue.Pop()
		if next.dead {
			continue
		}
		delete(s.live, next.id)
		next.fn(s.now)
		fired++
	}
	return fired
}

// Clear drops every pending callback.
func (s *Scheduler) Clear() {
	for s.queue.Size() > 0 {
		s.queue.Pop()
	}
	clear(s.live)
}
