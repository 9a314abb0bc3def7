package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ecoquest/internal/core"
	"github.com/vovakirdan/ecoquest/internal/storage"
)

// DefaultHold is how long a key counts as held when Options.Hold is zero.
// It must outlast the terminal's auto-repeat delay (250-600ms), or a held
// key stops until repeats begin.
const DefaultHold = 500 * time.Millisecond

// Game is the game surface the terminal front-end drives.
type Game interface {
	ID() string
	SessionID() string
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.GameState
	Render(dst *core.Screen)
	State() core.GameState
	Collected() int
	Close()
}

// Options configures a Model.
type Options struct {
	Runtime core.RuntimeConfig
	Hold    time.Duration  // Key hold window; terminals do not report releases
	Store   *storage.Store // nil disables score saving
	Logger  *log.Logger
	Clock   core.Clock
}

// Model is the Bubble Tea model for running EcoQuest.
type Model struct {
	game     Game
	screen   *core.Screen
	store    *storage.Store
	config   core.RuntimeConfig
	logger   *log.Logger
	clock    core.Clock
	hold     time.Duration
	keys     KeyMap
	bindings core.Bindings
	held     *core.KeySet
	lastSeen map[string]time.Time // Last press or auto-repeat per held key
	frame    core.InputFrame
	help     help.Model
	state    core.GameState
	showHelp bool
	quitting bool
	saved    *bool // Whether the current run's score has been stored
	newBest  *bool // The stored run beat the previous high score
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game Game, opts Options) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Hold <= 0 {
		opts.Hold = DefaultHold
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = core.RealClock()
	}

	keys := DefaultKeyMap()
	return Model{
		game:     game,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:    opts.Store,
		config:   cfg,
		logger:   opts.Logger,
		clock:    opts.Clock,
		hold:     opts.Hold,
		keys:     keys,
		bindings: keys.Bindings(),
		held:     core.NewKeySet(),
		lastSeen: make(map[string]time.Time),
		frame:    core.NewInputFrame(),
		help:     help.New(),
		saved:    new(bool),
		newBest:  new(bool),
	}
}

// Init starts the first run and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world is laid out in canvas units, so a resize only changes
		// the viewport and the run carries on.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.saveScore()
		m.game.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.frame.Set(core.ActionPause)
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.frame.Set(core.ActionRestart)
		return m, nil
	}

	name := strings.ToLower(msg.String())
	action := m.bindings.Action(name)
	if action == core.ActionNone {
		return m, nil
	}

	// A terminal cannot report two opposing keys held at once; a press
	// in one direction ends any hold in the other.
	for _, k := range m.bindings[opposite(action)] {
		m.held.Release(k)
		delete(m.lastSeen, k)
	}
	m.held.Press(name)
	m.lastSeen[name] = m.clock.Now()
	return m, nil
}

// handleTick expires stale keys, samples held input and steps the game.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	now := m.clock.Now()
	for k, at := range m.lastSeen {
		if now.Sub(at) > m.hold {
			m.held.Release(k)
			delete(m.lastSeen, k)
		}
	}
	m.bindings.Sample(m.held, &m.frame)

	prev := m.state
	m.state = m.game.Step(m.frame)
	m.frame.Clear()

	switch {
	case m.state.Complete && !prev.Complete:
		m.saveScore()
	case prev.Complete && !m.state.Complete:
		// A new run started
		*m.saved = false
		*m.newBest = false
		m.held.Reset()
		clear(m.lastSeen)
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore stores the current run once. Empty runs are not recorded.
func (m Model) saveScore() {
	if m.store == nil || *m.saved || m.state.Score <= 0 {
		return
	}
	*m.saved = true

	entry := storage.ScoreEntry{
		GameID:    m.game.ID(),
		SessionID: m.game.SessionID(),
		Score:     m.state.Score,
		Collected: m.game.Collected(),
	}
	best, bestErr := m.store.HighScore(entry.GameID)
	if bestErr != nil {
		m.logger.Warn("could not read high score", "error", bestErr)
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.logger.Warn("could not save score", "session", entry.SessionID, "score", entry.Score, "error", err)
		return
	}
	if bestErr == nil && entry.Score > best {
		*m.newBest = true
		m.logger.Info("new high score", "session", entry.SessionID, "score", entry.Score, "previous", best)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if *m.newBest && m.state.Complete {
		const badge = " New best score! "
		x := (m.screen.Width() - len([]rune(badge))) / 2
		for i, r := range []rune(badge) {
			m.screen.Paint(x+i, 1, r, core.ColorBlack, core.ColorGold)
		}
	}
	out := RenderScreen(m.screen)
	if !m.showHelp {
		return out
	}

	// The help bar replaces the bottom row.
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[:i+1]
	} else {
		out = ""
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return out + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program and closes the game when it exits.
func Run(game Game, opts Options) error {
	defer game.Close()

	p := tea.NewProgram(
		NewModel(game, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
