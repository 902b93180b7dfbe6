// Command firesweep runs many seeded trials of the fire automaton in
// parallel and reports how wind shapes spread and how long fuel lasts.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/logger"
)

var (
	flagTrials  = flag.Int("trials", 1000, "trials per scenario")
	flagTicks   = flag.Int("ticks", 200, "tick cap per trial")
	flagWorkers = flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
)

var (
	windStrengths = []float64{0, 2, 5, 10, 20}
	fuelLoads     = []uint8{1, 5, 12, 24}
)

func scenarios() []scenario {
	var out []scenario
	for _, s := range windStrengths {
		out = append(out, scenario{kind: spreadScenario, strength: s})
	}
	for _, f := range fuelLoads {
		out = append(out, scenario{kind: exhaustionScenario, fuel: f})
	}
	return out
}

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

	params := cfg.ToWildfire().Params
	sets := scenarios()
	workers := max(*flagWorkers, 1)
	logger.Info("sweep starting",
		zap.Int("scenarios", len(sets)),
		zap.Int("trials", *flagTrials),
		zap.Int("workers", workers),
		zap.Bool("buffered", params.Buffered))

	jobs := make(chan job)
	results := make(chan trialResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runTrial(params, j, *flagTicks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for si, s := range sets {
			for t := 0; t < *flagTrials; t++ {
				jobs <- job{scenario: s, index: si, seed: int64(si)<<32 | int64(t)}
			}
		}
		close(jobs)
	}()

	start := time.Now()
	grouped := make([][]trialResult, len(sets))
	for res := range results {
		grouped[res.index] = append(grouped[res.index], res)
	}

	rows := make([]summary, len(sets))
	for i, s := range sets {
		rows[i] = summarise(s, grouped[i], *flagTicks, params)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].scenario.kind < rows[j].scenario.kind })

	fmt.Println(renderReport(rows, *flagTicks))
	logger.Info("sweep finished", zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
