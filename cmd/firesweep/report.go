package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// spreadHolds reports whether fire reached the downwind target sooner on
// average. Calm air has no preferred direction so it always holds.
func spreadHolds(s summary) bool {
	if s.scenario.strength == 0 {
		return true
	}
	return s.downwindMean < s.crosswindMean
}

func renderReport(rows []summary, ticks int) string {
	var spread, burn strings.Builder
	fmt.Fprintln(&spread, headStyle.Render(fmt.Sprintf("%-18s %8s %8s %7s %7s", "scenario", "down", "cross", "hit↓", "hit→")))
	fmt.Fprintln(&burn, headStyle.Render(fmt.Sprintf("%-18s %8s %8s", "scenario", "mean", "expect")))
	for _, r := range rows {
		if r.scenario.kind == exhaustionScenario {
			line := fmt.Sprintf("%-18s %8.2f %8.2f", r.scenario, r.burnMean, r.burnExpected)
			fmt.Fprintln(&burn, line)
			continue
		}
		line := fmt.Sprintf("%-18s %8.2f %8.2f %6.0f%% %6.0f%%", r.scenario,
			r.downwindMean, r.crosswindMean,
			percent(r.downwindHit, r.trials), percent(r.crosswindHit, r.trials))
		if spreadHolds(r) {
			line = goodStyle.Render(line)
		} else {
			line = badStyle.Render(line)
		}
		fmt.Fprintln(&spread, line)
	}

	title := titleStyle.Render(fmt.Sprintf("wildfire sweep, %d ticks per trial", ticks))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		boxStyle.Render(strings.TrimRight(spread.String(), "\n")),
		boxStyle.Render(strings.TrimRight(burn.String(), "\n")),
	)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
