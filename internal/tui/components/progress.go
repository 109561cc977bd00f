package components

import (
	"fmt"

	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForCompletion returns red/orange/yellow/green as the plan fills.
func ColorForCompletion(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1.0:
		return string(t.Green)
	case pct >= 0.7:
		return string(t.Yellow)
	case pct >= 0.4:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// CompletionBar renders a labeled plan-completion bar with percentage.
func CompletionBar(label string, actual, plan float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if plan > 0 {
		pct = actual / plan
	}
	shown := pct
	if shown > 1 {
		shown = 1
	}
	if shown < 0 {
		shown = 0
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForCompletion(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForCompletion(pct))).Bold(true)

	pctStr := "  — "
	if plan > 0 {
		pctStr = fmt.Sprintf("%3.0f%%", pct*100)
	}

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " +
		bar.ViewAs(shown) +
		" " +
		pctStyle.Render(pctStr)
}
