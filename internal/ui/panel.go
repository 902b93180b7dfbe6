package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"wildfire-ca/internal/core"
)

const (
	panelPadding   = 12
	rowHeight      = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	rowsTop        = panelPadding + headerBaseline + 14
	unknownValue   = "--"
)

// panel is the control model behind the HUD: one row per adjustable
// parameter, each with a - and + button. It holds no ebiten state.
type panel struct {
	rows    []panelRow
	floats  core.FloatParameterSetter
	toggles core.BoolParameterSetter
}

type panelRow struct {
	ctrl  core.ParameterControl
	text  string
	known bool
	num   float64
	on    bool

	top         int
	minus, plus image.Rectangle
}

func newPanel(sim core.Sim, width int) *panel {
	p := &panel{}
	p.floats, _ = sim.(core.FloatParameterSetter)
	p.toggles, _ = sim.(core.BoolParameterSetter)
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return p
	}
	for i, ctrl := range provider.ParameterControls() {
		top := rowsTop + i*rowHeight
		y := top + (rowHeight-buttonSize)/2
		plus := image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		p.rows = append(p.rows, panelRow{ctrl: ctrl, text: unknownValue, top: top, minus: minus, plus: plus})
	}
	return p
}

// bottom is the y coordinate just below the last row.
func (p *panel) bottom() int { return rowsTop + len(p.rows)*rowHeight }

// refresh reads the current values of every row from snap.
func (p *panel) refresh(snap core.ParameterSnapshot) {
	for i := range p.rows {
		r := &p.rows[i]
		r.known = false
		r.text = unknownValue
		param, ok := snap.Lookup(r.ctrl.Key)
		if !ok {
			continue
		}
		switch r.ctrl.Type {
		case core.ParamTypeFloat:
			v, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			r.num, r.known, r.text = v, true, valueText(r.ctrl, v)
		case core.ParamTypeBool:
			v, err := strconv.ParseBool(param.Value)
			if err != nil {
				continue
			}
			r.on, r.known, r.text = v, true, onOff(v)
		}
	}
}

// click applies the button under the panel-local point (x, y). It reports
// whether the point hit a button of a row with a known value.
func (p *panel) click(x, y int) bool {
	pt := image.Pt(x, y)
	for i := range p.rows {
		r := &p.rows[i]
		if !r.known {
			continue
		}
		switch {
		case pt.In(r.minus):
			p.adjust(r, -1)
			return true
		case pt.In(r.plus):
			p.adjust(r, 1)
			return true
		}
	}
	return false
}

// enabled reports whether pressing dir on r would change anything.
func (p *panel) enabled(r *panelRow, dir int) bool {
	if !r.known {
		return false
	}
	switch r.ctrl.Type {
	case core.ParamTypeFloat:
		return p.floats != nil && nextValue(r.ctrl, r.num, dir) != r.num
	case core.ParamTypeBool:
		return p.toggles != nil && r.on != (dir > 0)
	}
	return false
}

// adjust steps a float row or, for a toggle, turns it off (-) or on (+).
func (p *panel) adjust(r *panelRow, dir int) {
	if !p.enabled(r, dir) {
		return
	}
	switch r.ctrl.Type {
	case core.ParamTypeFloat:
		v := nextValue(r.ctrl, r.num, dir)
		if p.floats.SetFloatParameter(r.ctrl.Key, v) {
			r.num, r.text = v, valueText(r.ctrl, v)
		}
	case core.ParamTypeBool:
		on := dir > 0
		if p.toggles.SetBoolParameter(r.ctrl.Key, on) {
			r.on, r.text = on, onOff(on)
		}
	}
}

func controlStep(ctrl core.ParameterControl) float64 {
	if ctrl.Step <= 0 {
		return 0.05
	}
	return ctrl.Step
}

// nextValue moves v one step in dir, clamped to the control bounds.
func nextValue(ctrl core.ParameterControl, v float64, dir int) float64 {
	v += float64(dir) * controlStep(ctrl)
	if ctrl.HasMin {
		v = max(v, ctrl.Min)
	}
	if ctrl.HasMax {
		v = min(v, ctrl.Max)
	}
	return v
}

// valueText prints v with as many decimals as the control step carries, and
// at least one.
func valueText(ctrl core.ParameterControl, v float64) string {
	step := strconv.FormatFloat(controlStep(ctrl), 'f', -1, 64)
	decimals := 1
	if i := strings.IndexByte(step, '.'); i >= 0 {
		decimals = max(decimals, len(step)-i-1)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// readouts summarises the fire and the global wind from snap.
func readouts(snap core.ParameterSnapshot) []string {
	var lines []string
	if p, ok := snap.Lookup("burning"); ok {
		lines = append(lines, fmt.Sprintf("Burning: %s cells", p.Value))
	}
	angle, okA := lookupFloat(snap, "wind_angle")
	strength, okS := lookupFloat(snap, "wind_strength")
	if okA && okS {
		line := fmt.Sprintf("Wind %.0f° at %.1f", angle, strength)
		if target, ok := lookupFloat(snap, "wind_target"); ok && int(target+0.5) != int(angle+0.5) {
			line += fmt.Sprintf(" -> %.0f°", target)
		}
		lines = append(lines, line)
	}
	if p, ok := snap.Lookup("wind_pinned"); ok && p.Value == "true" {
		lines = append(lines, "Wind pinned")
	}
	return lines
}

func lookupFloat(snap core.ParameterSnapshot, key string) (float64, bool) {
	p, ok := snap.Lookup(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.Value, 64)
	return v, err == nil
}
