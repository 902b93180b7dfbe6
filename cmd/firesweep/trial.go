package main

import (
	"fmt"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/wildfire"
)

// sweepSize is the side of the square test map. Fire starts on the west edge
// and the two targets sit the same Chebyshev distance away.
const sweepSize = 9

var (
	origin        = core.IVec2{X: 0, Y: sweepSize / 2}
	downwindGoal  = core.IVec2{X: sweepSize - 1, Y: sweepSize / 2}
	crosswindGoal = core.IVec2{X: 0, Y: sweepSize - 1}
)

type scenarioKind int

const (
	spreadScenario scenarioKind = iota
	exhaustionScenario
)

// scenario is one row of the report.
type scenario struct {
	kind     scenarioKind
	strength float64 // spread: wind blowing toward +x
	fuel     uint8   // exhaustion: initial fuel of the burning cell
}

func (s scenario) String() string {
	if s.kind == exhaustionScenario {
		return fmt.Sprintf("burn out fuel=%d", s.fuel)
	}
	return fmt.Sprintf("spread wind=%.1f", s.strength)
}

type job struct {
	scenario scenario
	index    int
	seed     int64
}

type trialResult struct {
	scenario scenario
	index    int

	// spread: ticks until each target caught, ticks+1 when it never did
	downwindAt  int
	crosswindAt int
	// exhaustion: ticks until the cell smouldered
	burnTicks int
}

// runTrial plays one seeded trial of s for at most ticks steps.
func runTrial(params wildfire.Params, j job, ticks int) trialResult {
	res := trialResult{scenario: j.scenario, index: j.index}
	rng := core.NewRNG(j.seed)
	switch j.scenario.kind {
	case exhaustionScenario:
		m := wildfire.NewUniformMap(8, 1, 1,
			wildfire.CellState{Terrain: wildfire.Fire, FuelLoad: j.scenario.fuel},
			wildfire.WithParams(params), wildfire.WithRNG(rng))
		loc := core.IVec2{}
		res.burnTicks = ticks + 1
		for tick := 1; tick <= ticks; tick++ {
			m.Update(core.Vec2{})
			if !m.IsOnFire(loc) {
				res.burnTicks = tick
				break
			}
		}
	default:
		m := wildfire.NewUniformMap(8, sweepSize, sweepSize,
			wildfire.CellState{Terrain: wildfire.Grassland, FuelLoad: 12},
			wildfire.WithParams(params), wildfire.WithRNG(rng))
		m.Ignite(origin)
		wind := core.Vec2{X: j.scenario.strength}
		res.downwindAt, res.crosswindAt = ticks+1, ticks+1
		for tick := 1; tick <= ticks; tick++ {
			m.Update(wind)
			if res.downwindAt > ticks && caught(m, downwindGoal) {
				res.downwindAt = tick
			}
			if res.crosswindAt > ticks && caught(m, crosswindGoal) {
				res.crosswindAt = tick
			}
			if res.downwindAt <= ticks && res.crosswindAt <= ticks {
				break
			}
			if !m.AnyOnFire() {
				break
			}
		}
	}
	return res
}

func caught(m *wildfire.GameMap, loc core.IVec2) bool {
	c, ok := m.Get(loc)
	return ok && (c.Terrain == wildfire.Fire || c.Terrain == wildfire.Smoldering)
}

// summary aggregates the trials of one scenario.
type summary struct {
	scenario scenario
	trials   int

	downwindMean  float64
	crosswindMean float64
	downwindHit   int
	crosswindHit  int

	burnMean     float64
	burnExpected float64
}

func summarise(s scenario, results []trialResult, ticks int, params wildfire.Params) summary {
	out := summary{scenario: s, trials: len(results)}
	if len(results) == 0 {
		return out
	}
	var down, cross, burn int
	for _, r := range results {
		down += r.downwindAt
		cross += r.crosswindAt
		burn += r.burnTicks
		if r.downwindAt <= ticks {
			out.downwindHit++
		}
		if r.crosswindAt <= ticks {
			out.crosswindHit++
		}
	}
	n := float64(len(results))
	out.downwindMean = float64(down) / n
	out.crosswindMean = float64(cross) / n
	out.burnMean = float64(burn) / n
	if params.BurnDecayRate > 0 {
		out.burnExpected = float64(s.fuel) / params.BurnDecayRate
	}
	return out
}
