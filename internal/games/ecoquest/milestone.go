package ecoquest

// MilestoneTracker reports each time the score crosses into a new
// multiple of Step. Last only grows.
type MilestoneTracker struct {
	Step int
	Last int // Highest threshold reported so far
}

// Observe checks score against the last reported threshold. A jump over
// several multiples reports only the highest one.
func (m *MilestoneTracker) Observe(score int) (Event, bool) {
	if m.Step <= 0 {
		return Event{}, false
	}
	threshold := score / m.Step * m.Step
	if threshold <= m.Last {
		return Event{}, false
	}
	m.Last = threshold
	return Event{Type: EventMilestone, Score: score, Threshold: threshold}, true
}
