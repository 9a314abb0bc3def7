package core

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. Returns false if it already ran or was stopped.
	Stop() bool
}

// Clock abstracts wall time and delayed callbacks so timer-driven
// behavior can be tested without sleeping.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return FromClockwork(clockwork.NewRealClock())
}

// FromClockwork adapts a clockwork clock.
func FromClockwork(c clockwork.Clock) Clock {
	return clockworkClock{c}
}

type clockworkClock struct {
	clockwork.Clock
}

func (c clockworkClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.Clock.AfterFunc(d, f)
}

// advancer is the part of clockwork's fake clock FakeClock drives.
type advancer interface {
	clockwork.Clock
	Advance(d time.Duration)
}

// FakeClock is a Clock for tests built on clockwork's fake clock. Time
// only moves on Advance, which returns once every callback it made due
// has finished running.
type FakeClock struct {
	fake advancer

	mu     sync.Mutex
	timers map[*fakeTimer]struct{} // Scheduled or still running
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	inner   clockwork.Timer
	done    chan struct{}
	fired   bool
	stopped bool
}

// NewFakeClock creates a fake clock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{
		fake:   clockwork.NewFakeClockAt(start),
		timers: make(map[*fakeTimer]struct{}),
	}
}

// Now returns the clock's current time.
func (c *FakeClock) Now() time.Time {
	return c.fake.Now()
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{clock: c, at: c.fake.Now().Add(d), done: make(chan struct{})}
	c.mu.Lock()
	c.timers[t] = struct{}{}
	c.mu.Unlock()

	inner := c.fake.AfterFunc(d, func() {
		if !t.fire() {
			return
		}
		f()
		c.mu.Lock()
		delete(c.timers, t)
		c.mu.Unlock()
		close(t.done)
	})

	c.mu.Lock()
	t.inner = inner
	c.mu.Unlock()
	return t
}

// Pending returns the number of scheduled callbacks that have not fired.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for t := range c.timers {
		if !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward and waits for the callbacks that fell due.
func (c *FakeClock) Advance(d time.Duration) {
	c.fake.Advance(d)
	now := c.fake.Now()

	c.mu.Lock()
	var due []chan struct{}
	for t := range c.timers {
		if !t.at.After(now) {
			due = append(due, t.done)
		}
	}
	c.mu.Unlock()

	for _, done := range due {
		<-done
	}
}

func (t *fakeTimer) fire() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.fired = true
	return true
}

func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	if t.fired || t.stopped {
		c.mu.Unlock()
		return false
	}
	t.stopped = true
	delete(c.timers, t)
	inner := t.inner
	c.mu.Unlock()

	close(t.done)
	if inner != nil {
		inner.Stop()
	}
	return true
}
