// Package config provides YAML-based game configuration loading and
// environment lookup for the EcoQuest platform.
package config

import "time"

// EcoQuestConfig contains all configuration for the EcoQuest simulation.
type EcoQuestConfig struct {
	World   WorldConfig   `yaml:"world"`
	Scoring ScoringConfig `yaml:"scoring"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Input   InputConfig   `yaml:"input"`
}

// WorldConfig defines the canvas, character and collectible layout.
type WorldConfig struct {
	CanvasWidth     float64 `yaml:"canvas_width"`
	CanvasHeight    float64 `yaml:"canvas_height"`
	CharacterWidth  float64 `yaml:"character_width"`
	CharacterHeight float64 `yaml:"character_height"`
	CharacterSpeed  float64 `yaml:"character_speed"` // Canvas pixels per tick
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	AnimStep        float64 `yaml:"anim_step"` // Animation phase advance per moving tick
	Collectibles    int     `yaml:"collectibles"`
	CollectibleSize float64 `yaml:"collectible_size"`
	SpawnMargin     float64 `yaml:"spawn_margin"`
}

// ScoringConfig defines rewards and thresholds.
type ScoringConfig struct {
	Reward        int `yaml:"reward"`         // Points per collected item
	MilestoneStep int `yaml:"milestone_step"` // Score interval that triggers a milestone
	LevelStep     int `yaml:"level_step"`     // Score interval per HUD level
}

// AdvisorConfig defines how advisory messages are requested and shown.
type AdvisorConfig struct {
	Enabled            bool          `yaml:"enabled"`
	URL                string        `yaml:"url"` // Overridden by ECOQUEST_ADVISOR_URL
	Timeout            time.Duration `yaml:"timeout"`
	VisibleFor         time.Duration `yaml:"visible_for"`
	FallbackVisibleFor time.Duration `yaml:"fallback_visible_for"`
	MilestoneDelay     time.Duration `yaml:"milestone_delay"`
	RandomTipEvery     time.Duration `yaml:"random_tip_every"` // 0 disables random tips
}

// InputConfig defines terminal key handling.
type InputConfig struct {
	// Hold is how long a key counts as held after its last press or
	// auto-repeat. Terminals do not report key releases.
	Hold time.Duration `yaml:"hold"`
}
