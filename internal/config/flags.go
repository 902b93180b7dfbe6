package config

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagSeed     = flag.String("seed", "", "Map seed (overrides config)")
	flagTPS      = flag.Int("tps", 0, "Automaton ticks per second")
	flagScale    = flag.Int("scale", 0, "Window pixels per cell")
	flagLevel    = flag.Int("level", -1, "Story level to play (0 for free play)")
	flagAddr     = flag.String("addr", "", "Server listen address")
	flagStore    = flag.String("store", "", "Snapshot store driver: json, postgres or none")
	flagBuffered = flag.Bool("buffered", false, "Use the double-buffered sweep")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != "" {
		seed, err := strconv.ParseInt(*flagSeed, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid -seed %q: %w", *flagSeed, err)
		}
		cfg.Map.Seed = int32(seed)
	}
	if *flagTPS > 0 {
		cfg.Sim.TPS = *flagTPS
	}
	if *flagScale > 0 {
		cfg.Window.Scale = *flagScale
	}
	if *flagLevel >= 0 {
		cfg.Story.Level = *flagLevel
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagStore != "" {
		cfg.Store.Driver = *flagStore
	}
	if *flagBuffered {
		cfg.Sim.Buffered = true
	}
	return nil
}
