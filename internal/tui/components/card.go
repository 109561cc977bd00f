// Package components provides reusable TUI widgets for the planfact dashboard.
package components

import (
	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// PlanCard is one metric tile on the overview: accumulated actual/plan
// totals plus the projected end-of-period deviation, when a target
// covers the metric.
type PlanCard struct {
	Label     string
	Summary   model.MetricSummary
	Deviation *float64
}

// Behind reports whether the metric is projected to close under plan.
func (c PlanCard) Behind() bool {
	return c.Deviation != nil && *c.Deviation < 0
}

// cardFrame is the bordered style shared by all card widgets. A red
// border flags a metric projected to close under plan.
func cardFrame(contentWidth int, behind bool) lipgloss.Style {
	t := theme.Active
	border := t.Border
	if behind {
		border = t.Red
	}
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(contentWidth).
		Padding(0, 1)
}

// Render draws the card at outerWidth total columns, border included.
// The projection line is green when on or ahead of plan, red when
// behind, and dim when no target covers the metric.
func (c PlanCard) Render(outerWidth int) string {
	t := theme.Active

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Render(c.Label)
	value := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Bold(true).
		Render(cli.FormatPlanActual(c.Summary))

	projColor := t.TextDim
	switch {
	case c.Behind():
		projColor = t.Red
	case c.Deviation != nil:
		projColor = t.Green
	}
	proj := lipgloss.NewStyle().
		Foreground(projColor).
		Render("proj " + cli.FormatDeviation(c.Deviation))

	return cardFrame(outerWidth-2, c.Behind()).Render(label + "\n" + value + "\n" + proj)
}

// PlanCardRow renders cards side by side, summing to exactly totalWidth.
func PlanCardRow(cards []PlanCard, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.Render(widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// LayoutRow splits totalWidth into n column widths that sum to exactly
// totalWidth. Leading items absorb the division remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
	}
	for i := 0; i < totalWidth%n; i++ {
		widths[i]++
	}
	return widths
}

// ContentCard renders a bordered body with an optional bold title line.
// outerWidth is the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardFrame(outerWidth-2, false).Render(content)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border and padding).
func CardInnerWidth(outerWidth int) int {
	if w := outerWidth - 4; w >= 10 {
		return w
	}
	return 10
}
