package main

import (
	"strings"
	"testing"

	"wildfire-ca/internal/wildfire"
)

func TestExhaustionWithCertainDecay(t *testing.T) {
	params := wildfire.DefaultConfig().Params
	params.BurnDecayRate = 1
	res := runTrial(params, job{scenario: scenario{kind: exhaustionScenario, fuel: 3}, seed: 1}, 50)
	if res.burnTicks != 3 {
		t.Fatalf("burnTicks = %d, want 3", res.burnTicks)
	}
}

func TestStrongWindNeverReachesCrosswind(t *testing.T) {
	params := wildfire.DefaultConfig().Params
	params.FireSpreadChance = 1
	params.BurnDecayRate = 0.05
	const ticks = 80
	reached := 0
	for i := 0; i < 100; i++ {
		res := runTrial(params, job{scenario: scenario{kind: spreadScenario, strength: 20}, seed: int64(i)}, ticks)
		if res.crosswindAt != ticks+1 {
			t.Fatalf("trial %d: crosswind target caught at %d", i, res.crosswindAt)
		}
		if res.downwindAt <= ticks {
			reached++
		}
	}
	if reached == 0 {
		t.Fatal("fire never reached the downwind target")
	}
}

func TestSummariseAndReport(t *testing.T) {
	params := wildfire.DefaultConfig().Params
	params.BurnDecayRate = 0.5
	burn := scenario{kind: exhaustionScenario, fuel: 4}
	spread := scenario{kind: spreadScenario, strength: 5}
	const ticks = 10

	b := summarise(burn, []trialResult{{burnTicks: 6}, {burnTicks: 10}}, ticks, params)
	if b.burnMean != 8 || b.burnExpected != 8 {
		t.Fatalf("burn summary = %+v", b)
	}
	s := summarise(spread, []trialResult{
		{downwindAt: 4, crosswindAt: 11},
		{downwindAt: 6, crosswindAt: 9},
	}, ticks, params)
	if s.downwindMean != 5 || s.crosswindMean != 10 || s.downwindHit != 2 || s.crosswindHit != 1 {
		t.Fatalf("spread summary = %+v", s)
	}
	if !spreadHolds(s) {
		t.Fatal("downwind faster than crosswind should hold")
	}

	out := renderReport([]summary{s, b}, ticks)
	for _, want := range []string{"10 ticks per trial", "spread wind=5.0", "burn out fuel=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestScenarios(t *testing.T) {
	got := scenarios()
	if len(got) != len(windStrengths)+len(fuelLoads) {
		t.Fatalf("scenarios = %d", len(got))
	}
	if got[0].kind != spreadScenario || got[len(got)-1].kind != exhaustionScenario {
		t.Fatalf("unexpected order: %v", got)
	}
}
