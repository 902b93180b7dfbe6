package app

import (
	"fmt"

	"wildfire-ca/internal/story"
	"wildfire-ca/internal/wildfire"
)

// Options configures the viewer.
type Options struct {
	Scale    int
	TPS      int
	ShowHUD  bool
	HUDWidth int

	// Level, when set, plays a scripted scenario instead of free play.
	Level *story.Level
}

const defaultHUDWidth = 240

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.TPS <= 0 {
		o.TPS = wildfire.DefaultConfig().TPS
	}
	if o.ShowHUD && o.HUDWidth <= 0 {
		o.HUDWidth = defaultHUDWidth
	}
	if !o.ShowHUD {
		o.HUDWidth = 0
	}
	return o
}

// statusLines summarises the run state for the HUD.
func statusLines(sim *wildfire.Sim, session *story.Session, paused bool) []string {
	lines := []string{fmt.Sprintf("Tick %d  Seed %d", sim.Tick(), sim.Config().Seed)}
	if session != nil {
		lv := session.Level()
		lines = append(lines,
			lv.Name,
			fmt.Sprintf("%.1fs  %d bolts left", session.Elapsed(), session.Pending()),
		)
		switch out := session.Outcome(); out {
		case story.Victory:
			lines = append(lines, "The town is safe. R to replay")
		case story.Defeat:
			lines = append(lines, "City hall burned. R to retry")
		}
	}
	if paused {
		lines = append(lines, "Paused")
	}
	return lines
}
