package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultEcoQuestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("hardcoded defaults invalid: %v", err)
	}
	// Terminals start auto-repeat 250-600ms after a press.
	if cfg.Input.Hold < 500*time.Millisecond {
		t.Errorf("Input.Hold = %v, shorter than a terminal repeat delay", cfg.Input.Hold)
	}

	fromYAML, err := LoadEcoQuest("")
	if err != nil {
		t.Fatalf("LoadEcoQuest(\"\") failed: %v", err)
	}
	// A user or local config may exist on the test machine; only compare
	// when neither is present.
	if _, err := os.Stat(userConfigPath("ecoquest.yaml")); err == nil {
		t.Skip("user config present")
	}
	if _, err := os.Stat("configs/ecoquest.yaml"); err == nil {
		t.Skip("local config present")
	}
	if fromYAML != cfg {
		t.Errorf("embedded YAML differs from hardcoded defaults:\n%+v\n%+v", fromYAML, cfg)
	}
}

func TestLoadCustomPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eco.yaml")
	data := []byte("scoring:\n  reward: 20\nadvisor:\n  visible_for: 3s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEcoQuest(path)
	if err != nil {
		t.Fatalf("LoadEcoQuest failed: %v", err)
	}
	if cfg.Scoring.Reward != 20 {
		t.Errorf("Reward = %d, expected 20", cfg.Scoring.Reward)
	}
	if cfg.Advisor.VisibleFor != 3*time.Second {
		t.Errorf("VisibleFor = %v, expected 3s", cfg.Advisor.VisibleFor)
	}
	// Unspecified fields keep defaults
	if cfg.Scoring.MilestoneStep != 50 {
		t.Errorf("MilestoneStep = %d, expected default 50", cfg.Scoring.MilestoneStep)
	}
	if cfg.World.CanvasWidth != 800 {
		t.Errorf("CanvasWidth = %v, expected default 800", cfg.World.CanvasWidth)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadEcoQuest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit config should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scoring:\n  reward: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEcoQuest(path); err == nil {
		t.Error("zero reward should fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EcoQuestConfig)
	}{
		{"zero canvas", func(c *EcoQuestConfig) { c.World.CanvasWidth = 0 }},
		{"character too wide", func(c *EcoQuestConfig) { c.World.CharacterWidth = 900 }},
		{"collectible too large", func(c *EcoQuestConfig) { c.World.CollectibleSize = 700 }},
		{"negative count", func(c *EcoQuestConfig) { c.World.Collectibles = -1 }},
		{"zero milestone step", func(c *EcoQuestConfig) { c.Scoring.MilestoneStep = 0 }},
		{"zero level step", func(c *EcoQuestConfig) { c.Scoring.LevelStep = 0 }},
		{"zero visibility", func(c *EcoQuestConfig) { c.Advisor.FallbackVisibleFor = 0 }},
		{"negative delay", func(c *EcoQuestConfig) { c.Advisor.MilestoneDelay = -time.Second }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultEcoQuestConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "ECOQUEST_ADVISOR_URL=http://advisor.test/eco\nOPENAI_API_KEY=sk-test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAdvisorURL, "")
	os.Unsetenv(EnvAdvisorURL)
	t.Setenv(EnvOpenAIKey, "sk-from-process")

	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if env.AdvisorURL != "http://advisor.test/eco" {
		t.Errorf("AdvisorURL = %q", env.AdvisorURL)
	}
	if env.OpenAIKey != "sk-from-process" {
		t.Errorf("process environment should win, got %q", env.OpenAIKey)
	}

	cfg := DefaultEcoQuestConfig()
	ApplyEnv(&cfg, env)
	if cfg.Advisor.URL != "http://advisor.test/eco" {
		t.Errorf("ApplyEnv did not override URL: %q", cfg.Advisor.URL)
	}
}

func TestLoadEnvMissingExplicitFile(t *testing.T) {
	if _, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("missing explicit env file should fail")
	}
}
