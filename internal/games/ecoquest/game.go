package ecoquest

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/config"
	"github.com/vovakirdan/ecoquest/internal/core"
)

// Options configures a Game.
type Options struct {
	Config     config.EcoQuestConfig
	Dispatcher *advisor.Dispatcher // nil disables advisory messages
	Clock      core.Clock          // Drives delayed milestone announcements
	Observer   Observer
	Logger     *log.Logger
	SessionID  string
}

// Game runs the simulation and its side effects.
// Reset, Step, Render and Close must be called from a single goroutine.
type Game struct {
	cfg        config.EcoQuestConfig
	dispatcher *advisor.Dispatcher
	clock      core.Clock
	observer   Observer
	logger     *log.Logger
	sessionID  string
	renderer   Renderer

	rt       core.RuntimeConfig
	state    State
	paused   bool
	tipTicks int
	pending  []core.Timer // Delayed milestone requests
	closed   bool

	// run is bumped by Reset and Close. A delayed callback that was
	// already firing when its timer was stopped sees a stale value and
	// drops itself.
	run atomic.Uint64
}

// New creates a game. Call Reset before the first Step.
func New(opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = core.RealClock()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Game{
		cfg:        opts.Config,
		dispatcher: opts.Dispatcher,
		clock:      opts.Clock,
		observer:   opts.Observer,
		logger:     opts.Logger,
		sessionID:  opts.SessionID,
	}
}

// ID returns the identifier used for stored scores.
func (g *Game) ID() string {
	return "ecoquest"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "EcoQuest"
}

// SessionID returns the session this game reports under.
func (g *Game) SessionID() string {
	return g.sessionID
}

// Reset starts a new run with a freshly placed set of collectibles and
// asks the advisor for a welcome message.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.rt = rt
	g.cancelPending()
	g.state = NewState(g.cfg, rt.Seed)
	g.paused = false
	g.tipTicks = 0

	g.logger.Info("run started", "session", g.sessionID, "seed", rt.Seed, "collectibles", g.state.Total())

	if !g.closed {
		g.dispatch(advisor.ActionWelcome, 0, "")
	}
	g.publishScore()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.GameState {
	if g.closed {
		return g.State()
	}

	if in.Has(core.ActionRestart) && g.state.Complete() {
		rt := g.rt
		rt.Seed++
		g.Reset(rt)
		return g.State()
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.State()
	}

	prev := g.state.Score
	var events []Event
	g.state, events = Step(g.state, in)

	if g.state.Score != prev {
		g.publishScore()
	}
	for _, ev := range events {
		g.handle(ev)
	}

	g.tickRandomTip()
	return g.State()
}

func (g *Game) handle(ev Event) {
	switch ev.Type {
	case EventCollected:
		g.logger.Debug("item collected", "kind", ev.Kind, "score", ev.Score)
		g.dispatch(advisor.ActionCollectionTip, ev.Score, ev.Kind.Topic())

	case EventMilestone:
		g.logger.Info("milestone reached", "threshold", ev.Threshold, "score", ev.Score)
		g.observer.MilestoneReached(g.sessionID, ev.Threshold, ev.Score)
		g.scheduleMilestone(ev.Score)

	case EventComplete:
		g.logger.Info("run complete", "session", g.sessionID, "score", ev.Score, "ticks", g.state.Tick)
	}
}

// scheduleMilestone hands the milestone to the advisor after the
// configured delay so it does not replace the collection tip at once.
func (g *Game) scheduleMilestone(score int) {
	if g.dispatcher == nil {
		return
	}
	run := g.run.Load()
	t := g.clock.AfterFunc(g.cfg.Advisor.MilestoneDelay, func() {
		if g.run.Load() != run {
			return
		}
		g.dispatch(advisor.ActionScoreMilestone, score, "")
	})
	g.pending = append(g.pending, t)
}

func (g *Game) cancelPending() {
	g.run.Add(1)
	for _, t := range g.pending {
		t.Stop()
	}
	g.pending = nil
}

// tickRandomTip counts unpaused play time and requests a random tip
// every Advisor.RandomTipEvery.
func (g *Game) tickRandomTip() {
	every := g.cfg.Advisor.RandomTipEvery
	if every <= 0 || g.dispatcher == nil {
		return
	}
	g.tipTicks++
	if g.tipTicks < core.Max(1, int(every/g.tickDuration())) {
		return
	}
	g.tipTicks = 0
	g.dispatch(advisor.ActionRandomTip, g.state.Score, "")
}

func (g *Game) tickDuration() time.Duration {
	rate := g.rt.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// dispatch issues an advisory request and forwards the posted message to
// the observer. It may run on a timer goroutine and so only touches
// fields that never change after New, plus the atomic run counter.
func (g *Game) dispatch(action advisor.Action, score int, gameEvent string) {
	if g.dispatcher == nil {
		return
	}
	ch := g.dispatcher.Request(action, score, gameEvent)
	observer, sessionID := g.observer, g.sessionID
	go func() {
		if p, ok := <-ch; ok {
			observer.AdvisoryPosted(sessionID, p)
		}
	}()
}

func (g *Game) publishScore() {
	g.observer.ScoreChanged(ScoreUpdate{
		SessionID: g.sessionID,
		Score:     g.state.Score,
		Level:     g.level(),
		Collected: g.state.Collected(),
		Total:     g.state.Total(),
		Complete:  g.state.Complete(),
	})
}

// level is 1 + score / LevelStep.
func (g *Game) level() int {
	step := g.cfg.Scoring.LevelStep
	if step <= 0 {
		return 1
	}
	return 1 + g.state.Score/step
}

// Render draws the current frame.
func (g *Game) Render(dst *core.Screen) {
	g.renderer.Render(dst, g.Snapshot())
}

// State returns the platform-facing game status.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.Score,
		Complete: g.state.Complete(),
		Paused:   g.paused,
	}
}

// Collected returns how many items have been collected this run.
func (g *Game) Collected() int {
	return g.state.Collected()
}

// Close cancels pending milestone announcements and closes the
// dispatcher. Requests still in flight resolve into nothing.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.cancelPending()
	if g.dispatcher != nil {
		g.dispatcher.Close()
	}
	g.logger.Debug("game closed", "session", g.sessionID, "score", g.state.Score)
}
