// Package main runs the wildfire automaton as a headless server that streams
// the map to websocket spectators.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/logger"
	"wildfire-ca/internal/persist"
	"wildfire-ca/internal/server"
	"wildfire-ca/internal/story"
	"wildfire-ca/internal/wildfire"
)

var flagResume = flag.String("resume", "", "Snapshot to resume from")

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("firewatch stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("firewatch stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := story.Select(cfg.Story.Level, cfg.Story.LevelsFile)
	if err != nil {
		return fmt.Errorf("selecting level: %w", err)
	}

	store, err := persist.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	if store != nil {
		defer store.Close()
		logger.Info("snapshot store ready", zap.String("driver", cfg.Store.Driver))
	}

	sim := wildfire.NewWithConfig(cfg.ToWildfire(), logger.Named("wildfire"))
	srv, err := server.New(cfg.Server, sim, level, store, logger.Named("server"))
	if err != nil {
		return err
	}
	if *flagResume != "" {
		if err := srv.Resume(ctx, *flagResume); err != nil {
			return fmt.Errorf("resuming %q: %w", *flagResume, err)
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	httpErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
		close(httpErr)
	}()

	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer cancelLoop()
	loopErr := make(chan error, 1)
	go func() { loopErr <- srv.Run(loopCtx) }()

	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil {
			cancelLoop()
			<-loopErr
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancelLoop()
	if err := <-loopErr; err != nil {
		return fmt.Errorf("final snapshot: %w", err)
	}
	return nil
}
