package core

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestFakeClockRunsDueCallbacks(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewFakeClock(start)

	var mu sync.Mutex
	var ran []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, name)
		}
	}
	c.AfterFunc(2*time.Second, record("b"))
	c.AfterFunc(1*time.Second, record("a"))
	c.AfterFunc(5*time.Second, record("c"))

	c.Advance(3 * time.Second)

	mu.Lock()
	got := append([]string(nil), ran...)
	mu.Unlock()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ran %v, want a and b", got)
	}
	if !c.Now().Equal(start.Add(3 * time.Second)) {
		t.Errorf("Now() = %v, expected start+3s", c.Now())
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, expected 1", c.Pending())
	}
}

func TestFakeClockStop(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	ran := make(chan struct{}, 1)
	timer := c.AfterFunc(time.Second, func() { ran <- struct{}{} })

	if !timer.Stop() {
		t.Error("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	c.Advance(2 * time.Second)
	select {
	case <-ran:
		t.Error("stopped timer should not run")
	default:
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop", c.Pending())
	}
}

func TestFakeClockStopAfterFire(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	timer := c.AfterFunc(time.Second, func() {})

	c.Advance(time.Second)
	if timer.Stop() {
		t.Error("Stop after the callback ran should report false")
	}
}

func TestFakeClockCallbackSchedules(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFakeClock(start)

	nested := make(chan struct{}, 1)
	c.AfterFunc(2*time.Second, func() {
		// Scheduling from inside a callback must not deadlock.
		c.AfterFunc(time.Second, func() { nested <- struct{}{} })
	})

	c.Advance(2 * time.Second)
	if c.Pending() != 1 {
		t.Fatalf("nested timer not scheduled, pending = %d", c.Pending())
	}

	c.Advance(time.Second)
	select {
	case <-nested:
	default:
		t.Error("nested timer should have run")
	}
}

func TestRealClockAfterFunc(t *testing.T) {
	c := RealClock()
	fired := make(chan time.Time, 1)
	start := c.Now()
	c.AfterFunc(10*time.Millisecond, func() { fired <- time.Now() })

	select {
	case at := <-fired:
		if at.Sub(start) < 10*time.Millisecond {
			t.Errorf("fired after %v, want at least 10ms", at.Sub(start))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("real clock callback never ran")
	}
}

func TestFromClockwork(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(50, 0))
	c := FromClockwork(fake)

	if !c.Now().Equal(time.Unix(50, 0)) {
		t.Errorf("Now() = %v", c.Now())
	}
	timer := c.AfterFunc(time.Minute, func() {})
	if !timer.Stop() {
		t.Error("Stop before firing should report true")
	}
}
