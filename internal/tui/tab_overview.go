package tui

import (
	"fmt"
	"strings"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/tui/components"
	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const cardsPerRow = 3

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.rep

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %s  ·  %s", strings.ToUpper(string(a.period)), cli.FormatDateRange(r.Start, r.End))))
	b.WriteString("\n\n")

	ids := r.MetricIDs()
	if len(ids) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		b.WriteString(dimStyle.Render("  Nothing logged in this period. Press [l] to log a value."))
		b.WriteString("\n")
		return b.String()
	}

	// Metric cards, a few per row
	for i := 0; i < len(ids); i += cardsPerRow {
		chunk := ids[i:min(i+cardsPerRow, len(ids))]
		cards := make([]components.PlanCard, 0, len(chunk))
		for _, id := range chunk {
			cards = append(cards, components.PlanCard{
				Label:     a.metricLabel(id),
				Summary:   r.Summary[id],
				Deviation: r.DeviationFor(id),
			})
		}
		b.WriteString(components.PlanCardRow(cards, cw))
		b.WriteString("\n")
	}

	// Plan completion bars
	labelW := 0
	for _, id := range ids {
		if w := len(a.metricLabel(id)); w > labelW {
			labelW = w
		}
	}
	barW := components.CardInnerWidth(cw) - labelW - 7
	if barW < 10 {
		barW = 10
	}

	var bars []string
	for _, id := range ids {
		summary := r.Summary[id]
		bars = append(bars, components.CompletionBar(a.metricLabel(id), summary.Actual, summary.Plan, labelW, barW))
	}
	b.WriteString(components.ContentCard("Plan Completion", strings.Join(bars, "\n"), cw))
	b.WriteString("\n")

	return b.String()
}
