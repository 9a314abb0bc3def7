// Package ecoquest implements the EcoQuest exploration game.
// A character walks a fixed canvas collecting environmental items; each
// pickup scores points and asks the eco-teacher advisor for a short tip.
//
// The simulation is split into pure steps (Update, Collect, Step) that
// operate on values, and a Game wrapper that owns the side effects:
// advisory requests, delayed milestone announcements and score reporting.
package ecoquest

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/ecoquest/internal/config"
	"github.com/vovakirdan/ecoquest/internal/core"
)

// Facing is the direction the character looks.
type Facing int

const (
	FacingDown Facing = iota
	FacingUp
	FacingLeft
	FacingRight
)

// String returns the facing name.
func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	default:
		return "down"
	}
}

// Character is the player-controlled walker. Coordinates are canvas pixels
// of the top-left corner.
type Character struct {
	X, Y   float64
	W, H   float64
	Speed  float64 // Pixels per tick along each held axis
	Facing Facing
	Moving bool
	Frame  float64 // Walk animation phase in [0, 4)
}

// Box returns the character's collision box.
func (c Character) Box() core.Box {
	return core.Box{X: c.X, Y: c.Y, W: c.W, H: c.H}
}

// Kind is the type of a collectible. Every kind maps to an advisor topic.
type Kind int

const (
	KindTree Kind = iota
	KindWater
	KindRecycle
	KindEnergy
	kindCount
)

// Topic returns the advisory topic the kind teaches about.
func (k Kind) Topic() string {
	switch k {
	case KindTree:
		return "forests"
	case KindWater:
		return "water"
	case KindRecycle:
		return "recycling"
	case KindEnergy:
		return "energy"
	default:
		return ""
	}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindWater:
		return "water"
	case KindRecycle:
		return "recycle"
	case KindEnergy:
		return "energy"
	default:
		return "unknown"
	}
}

// Collectible is an item on the canvas. Collected is written once.
type Collectible struct {
	X, Y      float64
	Size      float64
	Kind      Kind
	Collected bool
}

// Box returns the collectible's collision box.
func (c Collectible) Box() core.Box {
	return core.Box{X: c.X, Y: c.Y, W: c.Size, H: c.Size}
}

// World is the full simulated scene.
type World struct {
	Width, Height float64
	AnimStep      float64
	Character     Character
	Collectibles  []Collectible
}

// NewWorld builds the starting world from config, placing collectibles
// with a generator seeded by seed.
func NewWorld(cfg config.WorldConfig, seed int64) World {
	return World{
		Width:    cfg.CanvasWidth,
		Height:   cfg.CanvasHeight,
		AnimStep: cfg.AnimStep,
		Character: Character{
			X:      cfg.StartX,
			Y:      cfg.StartY,
			W:      cfg.CharacterWidth,
			H:      cfg.CharacterHeight,
			Speed:  cfg.CharacterSpeed,
			Facing: FacingDown,
		},
		Collectibles: Spawn(cfg, rand.New(rand.NewSource(seed))),
	}
}

// Spawn places cfg.Collectibles items uniformly inside the canvas,
// keeping SpawnMargin pixels from every edge. Kinds rotate so every
// topic appears.
func Spawn(cfg config.WorldConfig, rng *rand.Rand) []Collectible {
	spanX := math.Max(0, cfg.CanvasWidth-cfg.CollectibleSize-2*cfg.SpawnMargin)
	spanY := math.Max(0, cfg.CanvasHeight-cfg.CollectibleSize-2*cfg.SpawnMargin)

	items := make([]Collectible, cfg.Collectibles)
	for i := range items {
		items[i] = Collectible{
			X:    cfg.SpawnMargin + rng.Float64()*spanX,
			Y:    cfg.SpawnMargin + rng.Float64()*spanY,
			Size: cfg.CollectibleSize,
			Kind: Kind(i % int(kindCount)),
		}
	}
	return items
}

// Update moves the character one tick according to the held directions.
//
// Each held direction adds its displacement, so opposing keys cancel and
// diagonals move at the unnormalized sum. Directions are applied in the
// order up, down, left, right and the last one applied sets the facing.
// Each axis is clamped to the canvas on its own.
func Update(w World, in core.InputFrame) World {
	c := w.Character
	var dx, dy float64
	moving := false

	if in.Has(core.ActionUp) {
		dy -= c.Speed
		c.Facing = FacingUp
		moving = true
	}
	if in.Has(core.ActionDown) {
		dy += c.Speed
		c.Facing = FacingDown
		moving = true
	}
	if in.Has(core.ActionLeft) {
		dx -= c.Speed
		c.Facing = FacingLeft
		moving = true
	}
	if in.Has(core.ActionRight) {
		dx += c.Speed
		c.Facing = FacingRight
		moving = true
	}

	c.X = core.ClampF(c.X+dx, 0, math.Max(0, w.Width-c.W))
	c.Y = core.ClampF(c.Y+dy, 0, math.Max(0, w.Height-c.H))

	c.Moving = moving
	if moving {
		c.Frame = math.Mod(c.Frame+w.AnimStep, 4)
	} else {
		c.Frame = 0
	}

	w.Character = c
	return w
}

// Remaining returns how many collectibles are still on the canvas.
func (w World) Remaining() int {
	n := 0
	for _, item := range w.Collectibles {
		if !item.Collected {
			n++
		}
	}
	return n
}
