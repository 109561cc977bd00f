package tui

import (
	"fmt"
	"strings"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/tui/components"
	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTargetsTab(cw int) string {
	t := theme.Active

	if len(a.targets) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		return dimStyle.Render("  No targets set. Use `planfact targets set METRIC VALUE`.") + "\n"
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var lines []string
	lines = append(lines, headStyle.Render(
		fmt.Sprintf("%-18s %10s  %-7s %-8s", "Metric", "Target", "Horizon", "Status")))

	for _, target := range a.targets {
		status := target.Status
		style := rowStyle
		if target.Status == model.TargetActive && !target.Active(a.ref) {
			status = "expired"
			style = dimStyle
		}
		if target.Status == model.TargetArchived {
			style = dimStyle
		}
		lines = append(lines, style.Render(
			fmt.Sprintf("%-18s %10s  %-7s %-8s",
				a.metricLabel(target.MetricID),
				cli.FormatValue(target.Target),
				target.Period,
				status)))
	}

	return components.ContentCard(fmt.Sprintf("Targets for %s", a.owner), strings.Join(lines, "\n"), cw) + "\n"
}
