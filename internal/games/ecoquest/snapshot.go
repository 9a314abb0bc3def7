package ecoquest

import "github.com/vovakirdan/ecoquest/internal/advisor"

// Snapshot is a read-only view of one frame, used by the renderer.
type Snapshot struct {
	Width, Height float64
	Character     Character
	Collectibles  []Collectible
	Score         int
	Level         int
	Collected     int
	Total         int
	Paused        bool
	Complete      bool

	Advisory    advisor.Posted
	HasAdvisory bool
}

// Snapshot returns the current frame.
func (g *Game) Snapshot() Snapshot {
	s := g.state
	snap := Snapshot{
		Width:        s.World.Width,
		Height:       s.World.Height,
		Character:    s.World.Character,
		Collectibles: s.World.Collectibles,
		Score:        s.Score,
		Level:        g.level(),
		Collected:    s.Collected(),
		Total:        s.Total(),
		Paused:       g.paused,
		Complete:     s.Complete(),
	}
	if g.dispatcher != nil {
		snap.Advisory, snap.HasAdvisory = g.dispatcher.Current()
	}
	return snap
}
