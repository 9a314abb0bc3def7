package ecoquest

import (
	"github.com/vovakirdan/ecoquest/internal/config"
	"github.com/vovakirdan/ecoquest/internal/core"
)

// EventType distinguishes simulation events.
type EventType int

const (
	EventCollected EventType = iota
	EventMilestone
	EventComplete
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventCollected:
		return "collected"
	case EventMilestone:
		return "milestone"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is something that happened during a Step.
type Event struct {
	Type      EventType
	Kind      Kind // EventCollected only
	Index     int  // EventCollected only: collectible index
	Score     int  // Score right after the event
	Threshold int  // EventMilestone only
}

// State is the whole simulation state threaded through Step.
type State struct {
	World      World
	Score      int
	Reward     int
	Milestones MilestoneTracker
	Tick       uint64
}

// NewState creates the starting state for a run.
func NewState(cfg config.EcoQuestConfig, seed int64) State {
	return State{
		World:      NewWorld(cfg.World, seed),
		Reward:     cfg.Scoring.Reward,
		Milestones: MilestoneTracker{Step: cfg.Scoring.MilestoneStep},
	}
}

// Step advances the simulation by one tick: movement, then collection,
// then milestone detection.
func Step(s State, in core.InputFrame) (State, []Event) {
	wasComplete := s.Complete()

	s.Tick++
	s.World = Update(s.World, in)

	var events []Event
	prev := s.Score
	s.World, s.Score, events = Collect(s.World, s.Score, s.Reward)

	if s.Score != prev {
		if ev, ok := s.Milestones.Observe(s.Score); ok {
			events = append(events, ev)
		}
	}
	if !wasComplete && s.Complete() {
		events = append(events, Event{Type: EventComplete, Score: s.Score})
	}
	return s, events
}

// Collected returns the number of collected items.
func (s State) Collected() int {
	return len(s.World.Collectibles) - s.World.Remaining()
}

// Total returns the number of items in the run.
func (s State) Total() int {
	return len(s.World.Collectibles)
}

// Complete reports whether every item has been collected.
func (s State) Complete() bool {
	return s.Total() > 0 && s.World.Remaining() == 0
}
