package advisor

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ecoquest/internal/core"
)

type result struct {
	msg Message
	err error
}

// gatedService blocks each request until a result is pushed on the gate
// named by the request's game event.
type gatedService struct {
	gates map[string]chan result
}

func newGatedService(names ...string) *gatedService {
	s := &gatedService{gates: make(map[string]chan result, len(names))}
	for _, name := range names {
		s.gates[name] = make(chan result, 1)
	}
	return s
}

func (s *gatedService) Advise(ctx context.Context, req Request) (Message, error) {
	gate, ok := s.gates[req.GameEvent]
	if !ok {
		return Message{}, errors.New("no gate for " + req.GameEvent)
	}
	select {
	case r := <-gate:
		return r.msg, r.err
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (s *gatedService) resolve(name, text string) {
	s.gates[name] <- result{msg: Message{Text: text, Character: Character}}
}

func (s *gatedService) fail(name string) {
	s.gates[name] <- result{err: errors.New("service unavailable")}
}

func newTestDispatcher(svc Service) (*Dispatcher, *core.FakeClock) {
	clock := core.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	d := NewDispatcher(svc, DispatcherOptions{
		VisibleFor:         8 * time.Second,
		FallbackVisibleFor: 5 * time.Second,
		Clock:              clock,
		Logger:             log.New(io.Discard),
	})
	return d, clock
}

func wait(t *testing.T, ch <-chan Posted) (Posted, bool) {
	t.Helper()
	select {
	case p, ok := <-ch:
		return p, ok
	case <-time.After(2 * time.Second):
		t.Fatal("request did not settle")
		return Posted{}, false
	}
}

func TestDispatcherSuccessVisibleWindow(t *testing.T) {
	svc := newGatedService("forests")
	d, clock := newTestDispatcher(svc)

	ch := d.Request(ActionCollectionTip, 15, "forests")
	if _, ok := d.Current(); ok {
		t.Fatal("nothing should be visible before the request resolves")
	}

	svc.resolve("forests", "Trees are great.")
	posted, ok := wait(t, ch)
	if !ok {
		t.Fatal("expected a posted message")
	}
	if posted.Fallback {
		t.Error("successful response must not be marked as fallback")
	}
	if posted.VisibleFor != 8*time.Second {
		t.Errorf("VisibleFor = %v, want 8s", posted.VisibleFor)
	}

	cur, ok := d.Current()
	if !ok || cur.Text != "Trees are great." {
		t.Fatalf("Current() = %+v, %v", cur, ok)
	}

	clock.Advance(8*time.Second - time.Millisecond)
	if _, ok := d.Current(); !ok {
		t.Error("message should still be visible just before 8s")
	}
	clock.Advance(time.Millisecond)
	if _, ok := d.Current(); ok {
		t.Error("message should be hidden after 8s")
	}
}

func TestDispatcherFallbackOnFailure(t *testing.T) {
	svc := newGatedService("")
	d, clock := newTestDispatcher(svc)

	ch := d.Request(ActionScoreMilestone, 50, "")
	svc.fail("")
	posted, ok := wait(t, ch)
	if !ok {
		t.Fatal("expected a posted fallback")
	}
	if !posted.Fallback {
		t.Error("expected fallback flag")
	}
	if posted.Text != FallbackText {
		t.Errorf("Text = %q, want fallback text", posted.Text)
	}
	if posted.Character != Character {
		t.Errorf("Character = %q, want %q", posted.Character, Character)
	}
	if posted.VisibleFor != 5*time.Second {
		t.Errorf("VisibleFor = %v, want 5s", posted.VisibleFor)
	}

	clock.Advance(5*time.Second - time.Millisecond)
	if _, ok := d.Current(); !ok {
		t.Error("fallback should be visible before 5s")
	}
	clock.Advance(time.Millisecond)
	if _, ok := d.Current(); ok {
		t.Error("fallback should be hidden after 5s")
	}
}

func TestDispatcherLastResolvedWins(t *testing.T) {
	svc := newGatedService("a", "b")
	d, clock := newTestDispatcher(svc)

	chA := d.Request(ActionCollectionTip, 15, "a")
	chB := d.Request(ActionCollectionTip, 30, "b")

	svc.resolve("b", "second request")
	pb, _ := wait(t, chB)

	clock.Advance(3 * time.Second)

	svc.resolve("a", "first request")
	pa, _ := wait(t, chA)

	if pa.Seq <= pb.Seq {
		t.Errorf("later resolution must get a higher seq: a=%d b=%d", pa.Seq, pb.Seq)
	}

	cur, ok := d.Current()
	if !ok || cur.Text != "first request" {
		t.Fatalf("Current() = %q, %v; want the request that resolved last", cur.Text, ok)
	}

	if n := clock.Pending(); n != 1 {
		t.Errorf("pending timers = %d, want 1 (older hide timer canceled)", n)
	}

	// B's window would have ended here; A must still be shown.
	clock.Advance(5 * time.Second)
	if cur, ok := d.Current(); !ok || cur.Seq != pa.Seq {
		t.Error("older hide timer must not hide the newer message")
	}

	clock.Advance(3 * time.Second)
	if _, ok := d.Current(); ok {
		t.Error("message should be hidden after its own 8s window")
	}
}

func TestDispatcherCloseDropsLateResults(t *testing.T) {
	svc := newGatedService("late")
	d, clock := newTestDispatcher(svc)

	ch := d.Request(ActionRandomTip, 0, "late")
	d.Close()
	svc.resolve("late", "too late")

	if _, ok := wait(t, ch); ok {
		t.Error("closed dispatcher must not post")
	}
	if _, ok := d.Current(); ok {
		t.Error("nothing should be visible after Close")
	}
	if d.Seq() != 0 {
		t.Errorf("Seq() = %d, want 0", d.Seq())
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", clock.Pending())
	}
}

func TestDispatcherCloseCancelsHideTimer(t *testing.T) {
	svc := newGatedService("x")
	d, clock := newTestDispatcher(svc)

	ch := d.Request(ActionWelcome, 0, "x")
	svc.resolve("x", "hello")
	wait(t, ch)

	if clock.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", clock.Pending())
	}
	d.Close()
	d.Close()
	if clock.Pending() != 0 {
		t.Errorf("pending timers after Close = %d, want 0", clock.Pending())
	}
	if _, ok := d.Current(); ok {
		t.Error("Close should hide the current message")
	}
}

func TestDispatcherTimeoutFallsBack(t *testing.T) {
	svc := newGatedService("slow")
	clock := core.NewFakeClock(time.Now())
	d := NewDispatcher(svc, DispatcherOptions{
		Timeout: 20 * time.Millisecond,
		Clock:   clock,
		Logger:  log.New(io.Discard),
	})

	posted, ok := wait(t, d.Request(ActionCollectionTip, 15, "slow"))
	if !ok || !posted.Fallback {
		t.Fatalf("expected fallback after timeout, got %+v, %v", posted, ok)
	}
}
