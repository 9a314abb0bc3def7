package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/config"
)

var (
	flagAdvisorAddr    string
	flagAdvisorPath    string
	flagAdvisorTimeout time.Duration
)

var advisorCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Serve the eco-teacher advisory endpoint",
	Long: `Start the HTTP service that games ask for advisory messages.

With OPENAI_API_KEY set, messages are written by a chat-completion model
(OPENAI_BASE_URL and OPENAI_MODEL select an OpenAI-compatible endpoint).
Without a key, messages come from the built-in tip book.

Requests are POSTed as JSON:
  {"action": "welcome" | "score_milestone" | "random_tip" | "collection_tip",
   "score": 120, "gameEvent": "forests"}

Examples:
  ecoquest advisor
  ecoquest advisor --addr :9000
  OPENAI_API_KEY=sk-... ecoquest advisor`,
	Run: runAdvisor,
}

func init() {
	advisorCmd.Flags().StringVar(&flagAdvisorAddr, "addr", ":8787", "HTTP listen address")
	advisorCmd.Flags().StringVar(&flagAdvisorPath, "path", "/eco-teacher", "Advisory endpoint path")
	advisorCmd.Flags().DurationVar(&flagAdvisorTimeout, "timeout", 15*time.Second, "Deadline for generating one message")
}

func runAdvisor(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "eco-teacher")

	var service advisor.Service
	if env.OpenAIKey != "" {
		service = advisor.NewChatService(advisor.ChatOptions{
			BaseURL: env.OpenAIBaseURL,
			APIKey:  env.OpenAIKey,
			Model:   env.OpenAIModel,
			Timeout: flagAdvisorTimeout,
			Seed:    seedOrNow(),
		})
		logger.Info("using chat completions", "model", modelName(env))
	} else {
		service = advisor.NewLocalService(seedOrNow())
		logger.Warn("no " + config.EnvOpenAIKey + " set, serving built-in tips")
	}

	srv := &http.Server{
		Addr:              flagAdvisorAddr,
		Handler:           advisor.NewServer(service, flagAdvisorTimeout, logger).Handler(flagAdvisorPath),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "address", flagAdvisorAddr, "path", flagAdvisorPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		os.Exit(1)
	}
}

func modelName(e config.Env) string {
	if e.OpenAIModel != "" {
		return e.OpenAIModel
	}
	return advisor.DefaultChatModel
}

func seedOrNow() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newDispatcher builds the advisory dispatcher a game posts through.
// It returns nil when advisories are disabled.
func newDispatcher(cfg config.EcoQuestConfig, offline bool, logger *log.Logger) *advisor.Dispatcher {
	if !cfg.Advisor.Enabled {
		return nil
	}

	var service advisor.Service
	if offline || cfg.Advisor.URL == "" {
		service = advisor.NewLocalService(seedOrNow())
	} else {
		service = advisor.NewHTTPClient(cfg.Advisor.URL, cfg.Advisor.Timeout)
	}

	return advisor.NewDispatcher(service, advisor.DispatcherOptions{
		VisibleFor:         cfg.Advisor.VisibleFor,
		FallbackVisibleFor: cfg.Advisor.FallbackVisibleFor,
		Timeout:            cfg.Advisor.Timeout,
		Logger:             logger,
	})
}

// loadGameConfig loads the game config and applies environment and flag
// overrides.
func loadGameConfig(path, advisorURL string) (config.EcoQuestConfig, error) {
	cfg, err := config.LoadEcoQuest(path)
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg, env)
	if advisorURL != "" {
		cfg.Advisor.URL = advisorURL
	}
	return cfg, nil
}
