// Package stream broadcasts wildfire state to websocket spectators: a full
// keyframe on connect, then the cells that changed each tick.
package stream

import (
	"wildfire-ca/internal/wildfire"
)

// Frame types.
const (
	TypeKeyframe = "keyframe"
	TypeDelta    = "delta"
)

// Frame is one message on the wire. Cells carries palette indices for the
// whole grid in keyframes; Changes carries [x, y, index] triples in deltas.
type Frame struct {
	Type    string     `json:"type"`
	Tick    uint64     `json:"tick"`
	Width   int        `json:"width,omitempty"`
	Height  int        `json:"height,omitempty"`
	Wind    WindFrame  `json:"wind"`
	Burning int        `json:"burning"`
	Outcome string     `json:"outcome,omitempty"`
	Cells   []byte     `json:"cells,omitempty"`
	Changes [][3]int   `json:"changes,omitempty"`
	Palette []RGBFrame `json:"palette,omitempty"`
}

// WindFrame is the global wind at the frame tick.
type WindFrame struct {
	Angle    float64 `json:"angle"`
	Strength float64 `json:"strength"`
}

// RGBFrame is a palette entry.
type RGBFrame [3]uint8

// Keyframe describes the whole grid and its palette.
func Keyframe(sim *wildfire.Sim) Frame {
	size := sim.Size()
	cells := make([]byte, len(sim.Cells()))
	copy(cells, sim.Cells())
	palette := wildfire.Palette()
	rgb := make([]RGBFrame, len(palette))
	for i, c := range palette {
		rgb[i] = RGBFrame{c.R, c.G, c.B}
	}
	return Frame{
		Type:    TypeKeyframe,
		Tick:    sim.Tick(),
		Width:   size.W,
		Height:  size.H,
		Wind:    windOf(sim),
		Burning: sim.Map().CountOnFire(),
		Cells:   cells,
		Palette: rgb,
	}
}

// Delta describes the cells that changed during the last Step or Sync.
func Delta(sim *wildfire.Sim) Frame {
	changed := sim.Changed()
	size := sim.Size()
	cells := sim.Cells()
	changes := make([][3]int, 0, len(changed))
	for _, loc := range changed {
		changes = append(changes, [3]int{loc.X, loc.Y, int(cells[loc.Y*size.W+loc.X])})
	}
	return Frame{
		Type:    TypeDelta,
		Tick:    sim.Tick(),
		Wind:    windOf(sim),
		Burning: sim.Map().CountOnFire(),
		Changes: changes,
	}
}

func windOf(sim *wildfire.Sim) WindFrame {
	w := sim.Wind()
	return WindFrame{Angle: w.Angle(), Strength: w.Strength()}
}
