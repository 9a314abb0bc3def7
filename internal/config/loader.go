package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadEcoQuest loads EcoQuest configuration.
// Search order: customPath -> ~/.ecoquest/configs/ecoquest.yaml -> ./configs/ecoquest.yaml -> embedded default.
// Files are applied on top of the defaults, so partial files are fine.
func LoadEcoQuest(customPath string) (EcoQuestConfig, error) {
	cfg := DefaultEcoQuestConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("ecoquest.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := DefaultEcoQuestConfig()
			if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/ecoquest.yaml"); err == nil {
		candidate := DefaultEcoQuestConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultEcoQuestYAML, &cfg); err != nil {
		return DefaultEcoQuestConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Validate checks that the configuration describes a playable world.
func (c EcoQuestConfig) Validate() error {
	w := c.World
	switch {
	case w.CanvasWidth <= 0 || w.CanvasHeight <= 0:
		return errors.New("config: canvas dimensions must be positive")
	case w.CharacterWidth <= 0 || w.CharacterHeight <= 0:
		return errors.New("config: character dimensions must be positive")
	case w.CharacterWidth > w.CanvasWidth || w.CharacterHeight > w.CanvasHeight:
		return errors.New("config: character does not fit on the canvas")
	case w.CollectibleSize <= 0:
		return errors.New("config: collectible_size must be positive")
	case w.CollectibleSize+2*w.SpawnMargin > w.CanvasWidth ||
		w.CollectibleSize+2*w.SpawnMargin > w.CanvasHeight:
		return errors.New("config: collectibles do not fit inside the spawn margin")
	case w.Collectibles < 0:
		return errors.New("config: collectibles must not be negative")
	case c.Scoring.Reward <= 0:
		return errors.New("config: reward must be positive")
	case c.Scoring.MilestoneStep <= 0:
		return errors.New("config: milestone_step must be positive")
	case c.Scoring.LevelStep <= 0:
		return errors.New("config: level_step must be positive")
	case c.Advisor.VisibleFor <= 0 || c.Advisor.FallbackVisibleFor <= 0:
		return errors.New("config: advisory visibility windows must be positive")
	case c.Advisor.MilestoneDelay < 0 || c.Advisor.RandomTipEvery < 0:
		return errors.New("config: advisory delays must not be negative")
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ecoquest", "configs", filename)
}

// Environment variable names read by Env.
const (
	EnvAdvisorURL    = "ECOQUEST_ADVISOR_URL"
	EnvDatabaseURL   = "ECOQUEST_DATABASE_URL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIModel   = "OPENAI_MODEL"
)

// Env holds secrets and endpoints taken from the process environment.
type Env struct {
	AdvisorURL    string
	DatabaseURL   string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

// LoadEnv reads a dotenv file into the process environment and returns the
// variables EcoQuest cares about. Variables already set in the environment
// win over the file. An empty path means ./.env, which may be absent.
func LoadEnv(path string) (Env, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("config: cannot load env file %s: %w", path, err)
		}
	}

	return Env{
		AdvisorURL:    os.Getenv(EnvAdvisorURL),
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		OpenAIKey:     os.Getenv(EnvOpenAIKey),
		OpenAIBaseURL: os.Getenv(EnvOpenAIBaseURL),
		OpenAIModel:   os.Getenv(EnvOpenAIModel),
	}, nil
}

// ApplyEnv overrides config values that have environment equivalents.
func ApplyEnv(cfg *EcoQuestConfig, env Env) {
	if env.AdvisorURL != "" {
		cfg.Advisor.URL = env.AdvisorURL
	}
}
