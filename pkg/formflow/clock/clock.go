// Package clock provides the time source abstraction for formflow.
//
// Production code uses System; tests substitute Fixed, Stepping, or Cycling
// to make event timestamps deterministic without touching the router or the
// broker.
package clock

import (
	"sync"
	"time"
)

// Clock is a source of "now".
type Clock interface {
	Now() time.Time
}

// System returns a Clock backed by time.Now.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// Stepping returns a Clock that starts at start and advances by step on
// every Now call. The first call returns start.
func Stepping(start time.Time, step time.Duration) Clock {
	return &steppingClock{next: start, step: step}
}

type steppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Cycling returns a Clock that yields the given instants in order,
// wrapping around after the last one. Panics if no instants are given.
func Cycling(instants ...time.Time) Clock {
	if len(instants) == 0 {
		panic("clock: Cycling requires at least one instant")
	}
	return &cyclingClock{instants: instants}
}

type cyclingClock struct {
	mu       sync.Mutex
	instants []time.Time
	next     int
}

func (c *cyclingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.instants[c.next]
	c.next = (c.next + 1) % len(c.instants)
	return t
}
