package game

import (
	"testing"
	"time"
)

func TestClockFiresInDueOrder(t *testing.T) {
	c := NewClock()
	var fired []string
	c.Schedule(2*time.Second, func() { fired = append(fired, "b") })
	c.Schedule(time.Second, func() { fired = append(fired, "a") })
	c.Schedule(2*time.Second, func() { fired = append(fired, "c") })

	c.Advance(500 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}
	c.Advance(2 * time.Second)
	if got := len(fired); got != 3 || fired[0] != "a" || fired[1] != "b" || fired[2] != "c" {
		t.Fatalf("unexpected order %v", fired)
	}
	if c.Now() != 2500*time.Millisecond {
		t.Fatalf("Now = %v", c.Now())
	}
	if c.Pending() != 0 {
		t.Fatalf("expected no pending timers")
	}
}

func TestClockCallbackSeesDueTime(t *testing.T) {
	c := NewClock()
	var at time.Duration
	var chained bool
	c.Schedule(time.Second, func() {
		at = c.Now()
		c.Schedule(time.Second, func() { chained = true })
	})
	c.Advance(5 * time.Second)
	if at != time.Second {
		t.Fatalf("callback saw Now = %v", at)
	}
	if !chained {
		t.Fatalf("timer scheduled inside the window should fire in the same Advance")
	}
}

func TestClockRemaining(t *testing.T) {
	c := NewClock()
	id := c.Schedule(3*time.Second, func() {})
	c.Advance(time.Second)
	if rem, ok := c.Remaining(id); !ok || rem != 2*time.Second {
		t.Fatalf("Remaining = %v, %v", rem, ok)
	}
	c.Advance(2 * time.Second)
	if _, ok := c.Remaining(id); ok {
		t.Fatalf("expected timer to be gone")
	}
}
