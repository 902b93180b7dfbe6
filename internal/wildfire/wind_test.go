package wildfire

import (
	"math"
	"testing"

	"wildfire-ca/internal/core"
)

func TestWindConvergesOnTarget(t *testing.T) {
	w := NewWindDirection(DefaultWindParams(), 0, 3, core.NewRNG(5))
	w.SetTarget(90)
	w.SetVariance(45)

	for i := 0; math.Abs(ShortestArc(w.Angle(), 90)) > 1; i++ {
		if i > 1000 {
			t.Fatalf("wind stuck at %f", w.Angle())
		}
		prev := w.Angle()
		w.Update(0.1)
		if !(w.Angle() > prev) || w.Angle() > 90 {
			t.Fatalf("angle moved from %f to %f", prev, w.Angle())
		}
		if w.Target() != 90 {
			t.Fatalf("target changed before arrival: %f", w.Target())
		}
	}

	w.Update(0.1)
	if w.Angle() != 90 {
		t.Fatalf("angle did not snap to target: %f", w.Angle())
	}
	if d := math.Abs(ShortestArc(90, w.Target())); d > 45+1e-9 {
		t.Fatalf("new target %f is %f degrees from the angle", w.Target(), d)
	}
}

func TestWindTakesShortWayRound(t *testing.T) {
	w := NewWindDirection(DefaultWindParams(), 350, 3, core.NewRNG(1))
	w.SetTarget(10)
	w.Update(0.1)
	if math.Abs(w.Angle()-350.6) > 1e-9 {
		t.Fatalf("expected counter-clockwise step to 350.6, got %f", w.Angle())
	}
	for i := 0; i < 100; i++ {
		w.Update(0.1)
		a := w.Angle()
		if a < 0 || a >= 360 {
			t.Fatalf("angle %f outside [0, 360)", a)
		}
		if a > 10+1e-9 && a < 350 {
			t.Fatalf("wind went the long way round: %f", a)
		}
		if w.Target() != 10 {
			break
		}
	}
}

func TestShortestArc(t *testing.T) {
	cases := []struct{ from, to, want float64 }{
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{180, 0, 180},
		{90, 45, -45},
		{720, 0, 0},
		{-90, 90, 180},
	}
	for _, tc := range cases {
		if got := ShortestArc(tc.from, tc.to); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ShortestArc(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestWindStrengthStaysInBounds(t *testing.T) {
	params := DefaultWindParams()
	params.StrengthJitter = 2
	w := NewWindDirection(params, 0, 50, core.NewRNG(8))
	if w.Strength() != params.MaxSpeed {
		t.Fatalf("initial strength %f not clamped to %f", w.Strength(), params.MaxSpeed)
	}
	for i := 0; i < 5000; i++ {
		w.Update(0.1)
		if s := w.Strength(); s < params.MinSpeed || s > params.MaxSpeed {
			t.Fatalf("strength %f escaped [%f, %f]", s, params.MinSpeed, params.MaxSpeed)
		}
	}
}

func TestWindOverride(t *testing.T) {
	w := NewWindDirection(DefaultWindParams(), 0, 3, core.NewRNG(2))
	w.Override(180, 2000)
	for i := 0; i < 100; i++ {
		w.Update(0.1)
	}
	if w.Angle() != 180 || w.Strength() != 2000 || !w.Overridden() {
		t.Fatalf("pinned wind drifted: angle %f strength %f", w.Angle(), w.Strength())
	}
	v := w.Vec()
	if math.Abs(v.X+2000) > 1e-6 || math.Abs(v.Y) > 1e-6 {
		t.Fatalf("vec = %+v, want (-2000, 0)", v)
	}

	w.Release()
	if w.Overridden() || w.Strength() != DefaultWindParams().MaxSpeed {
		t.Fatalf("release left strength at %f", w.Strength())
	}
}

func TestWindStateRestore(t *testing.T) {
	src := NewWindDirection(DefaultWindParams(), 123, 4, core.NewRNG(11))
	src.Update(0.1)
	dst := NewWindDirection(DefaultWindParams(), 0, 0, core.NewRNG(12))
	dst.Restore(src.State())
	if dst.State() != src.State() {
		t.Fatalf("restored %+v, want %+v", dst.State(), src.State())
	}
}

func TestWindVecPolar(t *testing.T) {
	w := NewWindDirection(DefaultWindParams(), 90, 2, core.NewRNG(1))
	v := w.Vec()
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-2) > 1e-9 {
		t.Fatalf("vec = %+v, want (0, 2)", v)
	}
}
