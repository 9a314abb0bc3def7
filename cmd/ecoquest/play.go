package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecoquest/internal/games/ecoquest"
	"github.com/vovakirdan/ecoquest/internal/platform/tui"
	"github.com/vovakirdan/ecoquest/internal/storage"
)

var (
	flagConfig     string
	flagAdvisorURL string
	flagOffline    bool
	flagFeedAddr   string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start an EcoQuest run in this terminal.

Controls:
  Arrows/WASD  - Walk (hold to keep moving, combine for diagonals)
  P/Esc        - Pause
  R            - New run (after every item is collected)
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Advisory messages come from the eco-teacher service at the configured
URL (env ECOQUEST_ADVISOR_URL). Use --offline to use the built-in tips.

Examples:
  ecoquest play
  ecoquest play --offline
  ecoquest play --advisor-url http://localhost:8787/eco-teacher
  ecoquest play --feed :8080
  ecoquest play --config ./my-ecoquest.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagAdvisorURL, "advisor-url", "", "Advisory service URL (overrides config)")
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Use built-in tips instead of the advisory service")
	playCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve a live score websocket feed on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.ecoquest/ecoquest.log", "Log file (the terminal is busy with the game)")
}

func runPlay(_ *cobra.Command, _ []string) {
	logOut, closeLog := openLogFile(flagLogFile)
	defer closeLog()
	logger := newLogger(logOut, "ecoquest")

	cfg, err := loadGameConfig(flagConfig, flagAdvisorURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	var observer ecoquest.Observer
	if flagFeedAddr != "" {
		fs := startFeed(flagFeedAddr, logger)
		defer fs.Stop()
		observer = fs.hub
	}

	game := ecoquest.New(ecoquest.Options{
		Config:     cfg,
		Dispatcher: newDispatcher(cfg, flagOffline, logger),
		Observer:   observer,
		Logger:     logger,
		SessionID:  uuid.NewString(),
	})

	runErr := tui.Run(game, tui.Options{
		Runtime: runtimeConfig(),
		Hold:    cfg.Input.Hold,
		Store:   store,
		Logger:  logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openLogFile opens path for appending. Logging is discarded if the file
// cannot be opened.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	if rest, ok := cutHome(path); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return io.Discard, func() {}
		}
		path = filepath.Join(home, rest)
	}

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Warn("could not open log file", "path", path, "error", err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

func cutHome(path string) (string, bool) {
	if path == "~" {
		return "", true
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		return path[2:], true
	}
	return "", false
}
