package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ecoquest/internal/feed"
)

// feedServer serves the live score feed at /feed.
type feedServer struct {
	hub *feed.Hub
	srv *http.Server
}

// startFeed starts serving hub on addr in the background.
func startFeed(addr string, logger *log.Logger) *feedServer {
	hub := feed.NewHub(logger)

	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("score feed listening", "address", addr, "path", "/feed")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("feed server error", "error", err)
		}
	}()

	return &feedServer{hub: hub, srv: srv}
}

// Stop disconnects subscribers and shuts the listener down.
func (f *feedServer) Stop() {
	f.hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	//nolint:errcheck // Shutting down anyway
	f.srv.Shutdown(ctx)
}
