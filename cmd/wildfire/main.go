//go:build ebiten

// Package main is the desktop viewer for the wildfire automaton.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"wildfire-ca/internal/app"
	"wildfire-ca/internal/config"
	"wildfire-ca/internal/logger"
	"wildfire-ca/internal/story"
	"wildfire-ca/internal/wildfire"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
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

	level, err := story.Select(cfg.Story.Level, cfg.Story.LevelsFile)
	if err != nil {
		logger.Fatal("failed to load level", zap.Error(err))
	}

	sim := wildfire.NewWithConfig(cfg.ToWildfire(), logger.Named("wildfire"))
	game := app.New(sim, app.Options{
		Scale:   cfg.Window.Scale,
		TPS:     cfg.Sim.TPS,
		ShowHUD: cfg.Window.ShowHUD,
		Level:   level,
	}, logger.Named("app"))

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(w, h)

	logger.Info("viewer starting", zap.Int("width", cfg.Map.Width), zap.Int("height", cfg.Map.Height), zap.Int32("seed", cfg.Map.Seed))
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed")
}
