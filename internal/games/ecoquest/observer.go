package ecoquest

import "github.com/vovakirdan/ecoquest/internal/advisor"

// ScoreUpdate is published whenever the score changes.
type ScoreUpdate struct {
	SessionID string
	Score     int
	Level     int
	Collected int
	Total     int
	Complete  bool
}

// Observer receives game progress. Methods may be called from timer and
// request goroutines, so implementations must be safe for concurrent use.
type Observer interface {
	ScoreChanged(ScoreUpdate)
	MilestoneReached(sessionID string, threshold, score int)
	AdvisoryPosted(sessionID string, p advisor.Posted)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) ScoreChanged(ScoreUpdate)              {}
func (NopObserver) MilestoneReached(string, int, int)     {}
func (NopObserver) AdvisoryPosted(string, advisor.Posted) {}
