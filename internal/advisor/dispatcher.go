package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ecoquest/internal/core"
)

// Posted is a message that has been placed in the display slot.
type Posted struct {
	Message
	Seq        uint64 // Monotonic per dispatcher, assigned at resolution time
	Action     Action
	Fallback   bool
	ShownAt    time.Time
	VisibleFor time.Duration
}

// HidesAt returns when the message's visibility window ends.
func (p Posted) HidesAt() time.Time {
	return p.ShownAt.Add(p.VisibleFor)
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	VisibleFor         time.Duration // Window for service responses
	FallbackVisibleFor time.Duration // Window for the local fallback message
	Timeout            time.Duration // Per-request deadline, 0 means none
	Clock              core.Clock
	Logger             *log.Logger
}

// Dispatcher issues advisory requests and owns the current-message slot.
//
// Requests are never deduplicated or canceled. Each one settles on its own
// goroutine and whichever resolves last replaces the current message, even
// if it was issued earlier. Every post cancels the previous message's hide
// timer and arms a new one keyed to its own sequence number.
type Dispatcher struct {
	service Service
	opts    DispatcherOptions

	mu      sync.Mutex
	seq     uint64
	current Posted
	visible bool
	hide    core.Timer
	closed  bool
}

// NewDispatcher creates a dispatcher backed by the given service.
func NewDispatcher(service Service, opts DispatcherOptions) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = core.RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.VisibleFor <= 0 {
		opts.VisibleFor = 8 * time.Second
	}
	if opts.FallbackVisibleFor <= 0 {
		opts.FallbackVisibleFor = 5 * time.Second
	}
	return &Dispatcher{
		service: service,
		opts:    opts,
	}
}

// Request asks the service for a message and posts the result.
// The returned channel receives the posted message once the request
// settles, then is closed. If the dispatcher was closed in the meantime
// the result is dropped and the channel is closed without a value.
// Service failures never surface: they post the fallback message.
func (d *Dispatcher) Request(action Action, score int, gameEvent string) <-chan Posted {
	out := make(chan Posted, 1)
	req := Request{Action: action, Score: score, GameEvent: gameEvent}

	go func() {
		defer close(out)

		ctx := context.Background()
		if d.opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
			defer cancel()
		}

		msg, err := d.service.Advise(ctx, req)
		window := d.opts.VisibleFor
		fallback := false
		if err != nil {
			d.opts.Logger.Warn("advisory request failed", "action", action, "score", score, "error", err)
			msg = FallbackMessage(d.opts.Clock.Now())
			window = d.opts.FallbackVisibleFor
			fallback = true
		}
		if msg.Character == "" {
			msg.Character = Character
		}

		if posted, ok := d.post(action, msg, window, fallback); ok {
			out <- posted
		}
	}()

	return out
}

// post writes a resolved message into the slot.
func (d *Dispatcher) post(action Action, msg Message, window time.Duration, fallback bool) (Posted, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Posted{}, false
	}

	d.seq++
	seq := d.seq
	d.current = Posted{
		Message:    msg,
		Seq:        seq,
		Action:     action,
		Fallback:   fallback,
		ShownAt:    d.opts.Clock.Now(),
		VisibleFor: window,
	}
	d.visible = true

	if d.hide != nil {
		d.hide.Stop()
	}
	d.hide = d.opts.Clock.AfterFunc(window, func() { d.expire(seq) })

	d.opts.Logger.Debug("advisory posted", "seq", seq, "action", action, "fallback", fallback)
	return d.current, true
}

// expire hides the message with the given sequence if it is still current.
func (d *Dispatcher) expire(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current.Seq != seq {
		return
	}
	d.visible = false
	d.hide = nil
}

// Current returns the visible message, if any.
func (d *Dispatcher) Current() (Posted, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return Posted{}, false
	}
	return d.current, true
}

// Seq returns the sequence number of the latest posted message.
func (d *Dispatcher) Seq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Close hides the current message, cancels its timer and makes every
// later resolution a no-op. In-flight requests keep running until their
// own deadline.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.visible = false
	if d.hide != nil {
		d.hide.Stop()
		d.hide = nil
	}
}
