package game

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled callback
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].id < q[j].id
	}
	return q[i].due < q[j].due
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x any)   { *q = append(*q, x.(*timer)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Clock is a monotonically advancing game clock. Callbacks scheduled on it
// fire from Advance, never from another goroutine.
type Clock struct {
	now    time.Duration
	nextID TimerID
	queue  timerQueue
	live   map[TimerID]*timer
}

// NewClock creates a clock at time zero
func NewClock() *Clock {
	return &Clock{live: make(map[TimerID]*timer)}
}

// Now returns the elapsed game time
func (c *Clock) Now() time.Duration {
	return c.now
}

// Schedule runs fn once the clock has advanced by delay
func (c *Clock) Schedule(delay time.Duration, fn func()) TimerID {
	c.nextID++
	t := &timer{id: c.nextID, due: c.now + delay, fn: fn}
	heap.Push(&c.queue, t)
	c.live[t.id] = t
	return t.id
}

// Pending returns the number of callbacks that have not fired yet
func (c *Clock) Pending() int {
	return len(c.live)
}

// Remaining returns how long until the timer fires, and false if it already has
func (c *Clock) Remaining(id TimerID) (time.Duration, bool) {
	t, ok := c.live[id]
	if !ok {
		return 0, false
	}
	return t.due - c.now, true
}

// Advance moves the clock forward and fires every callback that came due,
// earliest first. Callbacks scheduled during Advance with a due time inside
// the window fire in the same call.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := c.now + dt
	for c.queue.Len() > 0 && c.queue[0].due <= target {
		t := heap.Pop(&c.queue).(*timer)
		delete(c.live, t.id)
		if t.due > c.now {
			c.now = t.due
		}
		t.fn()
	}
	c.now = target
}
