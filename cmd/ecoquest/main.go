// ecoquest is a terminal eco-adventure: walk a character around a
// landscape, collect environmental items and read tips from an AI
// environmental teacher.
//
// Usage:
//
//	ecoquest play            - Play a run in this terminal
//	ecoquest serve           - Start SSH server for remote play
//	ecoquest advisor         - Serve the eco-teacher advisory endpoint
//	ecoquest scores          - Show high scores
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible collectible layouts
//	--db <path|url>       - Set database path or postgres:// URL (default: ~/.ecoquest/scores.db)
//	--log-level <level>   - debug, info, warn or error (default: info)
//	--env-file <path>     - dotenv file to load (default: ./.env if present)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ecoquest/internal/config"
	"github.com/vovakirdan/ecoquest/internal/core"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagEnvFile  string

	// Loaded before any subcommand runs
	env config.Env
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ecoquest",
	Short: "EcoQuest - an environmental adventure in your terminal",
	Long: `EcoQuest is a terminal eco-adventure. Walk around the landscape,
collect trees, water drops, recyclables and energy cells, and learn
from Eco, your environmental teacher.

Available commands:
  play     - Play a run in this terminal
  serve    - Start SSH server for remote play
  advisor  - Serve the eco-teacher advisory endpoint
  scores   - View high scores

Examples:
  ecoquest play
  ecoquest play --offline --seed 42
  ecoquest serve --ssh :2222
  ecoquest advisor --addr :8787
  ecoquest scores --tui`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		env, err = config.LoadEnv(flagEnvFile)
		if err != nil {
			return err
		}
		if env.DatabaseURL != "" && !cmd.Flags().Changed("db") {
			flagDBPath = env.DatabaseURL
		}
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ecoquest/scores.db", "Scores database path or postgres:// URL (env "+config.EnvDatabaseURL+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "dotenv file with secrets (default ./.env if present)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(advisorCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger creates a logger at the level chosen by --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// runtimeConfig builds the runtime config from the global flags.
func runtimeConfig() core.RuntimeConfig {
	w, h := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
