package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecoquest/internal/config"
	"github.com/vovakirdan/ecoquest/internal/games/ecoquest"
	"github.com/vovakirdan/ecoquest/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeConfig string
	flagServeFeed   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the EcoQuest SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own run, session ID and advisory stream.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ecoquest/host_key

Examples:
  ecoquest serve                           # Listen on :23234 with auto-generated key
  ecoquest serve --ssh :2222               # Listen on port 2222
  ecoquest serve --host-key ./my_host_key  # Use specific host key
  ecoquest serve --feed :8080              # Also serve the live score feed

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom game config YAML")
	serveCmd.Flags().StringVar(&flagAdvisorURL, "advisor-url", "", "Advisory service URL (overrides config)")
	serveCmd.Flags().BoolVar(&flagOffline, "offline", false, "Use built-in tips instead of the advisory service")
	serveCmd.Flags().StringVar(&flagServeFeed, "feed", "", "Serve a live score websocket feed on this address (e.g. :8080)")
}

// feedGame forgets the session's feed state once the game closes.
type feedGame struct {
	*ecoquest.Game
	forget func(sessionID string)
}

func (g feedGame) Close() {
	g.Game.Close()
	g.forget(g.SessionID())
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "ecoquest-ssh")

	cfg, err := loadGameConfig(flagServeConfig, flagAdvisorURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var fs *feedServer
	if flagServeFeed != "" {
		fs = startFeed(flagServeFeed, logger)
		defer fs.Stop()
	}

	newGame := func(sessionID, user string) (tui.Game, error) {
		game := ecoquest.New(ecoquest.Options{
			Config:     cfg,
			Dispatcher: newDispatcher(cfg, flagOffline, logger.With("session", sessionID)),
			Logger:     logger.With("user", user),
			SessionID:  sessionID,
			Observer:   observerFor(fs),
		})
		if fs == nil {
			return game, nil
		}
		return feedGame{Game: game, forget: fs.hub.Forget}, nil
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Hold:        cfg.Input.Hold,
		NewGame:     newGame,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	logAdvisor(cfg)
	fmt.Printf("Starting EcoQuest SSH server on %s\n", flagSSHAddr)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func observerFor(fs *feedServer) ecoquest.Observer {
	if fs == nil {
		return nil
	}
	return fs.hub
}

func logAdvisor(cfg config.EcoQuestConfig) {
	switch {
	case !cfg.Advisor.Enabled:
		fmt.Println("Advisory messages: disabled")
	case flagOffline || cfg.Advisor.URL == "":
		fmt.Println("Advisory messages: built-in tips")
	default:
		fmt.Printf("Advisory messages: %s\n", cfg.Advisor.URL)
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
