package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/ecoquest.yaml
var defaultEcoQuestYAML []byte

// DefaultEcoQuestConfig returns the default EcoQuest configuration.
func DefaultEcoQuestConfig() EcoQuestConfig {
	return EcoQuestConfig{
		World: WorldConfig{
			CanvasWidth:     800,
			CanvasHeight:    600,
			CharacterWidth:  32,
			CharacterHeight: 32,
			CharacterSpeed:  4,
			StartX:          400,
			StartY:          300,
			AnimStep:        0.2,
			Collectibles:    12,
			CollectibleSize: 20,
			SpawnMargin:     10,
		},
		Scoring: ScoringConfig{
			Reward:        15,
			MilestoneStep: 50,
			LevelStep:     100,
		},
		Advisor: AdvisorConfig{
			Enabled:            true,
			URL:                "http://localhost:8787/eco-teacher",
			Timeout:            10 * time.Second,
			VisibleFor:         8 * time.Second,
			FallbackVisibleFor: 5 * time.Second,
			MilestoneDelay:     2 * time.Second,
			RandomTipEvery:     45 * time.Second,
		},
		Input: InputConfig{
			Hold: 500 * time.Millisecond,
		},
	}
}
