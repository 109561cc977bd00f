package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/tui/components"
	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderHistoryTab shows per-metric daily actuals across the current
// window as sparklines.
func (a App) renderHistoryTab(cw int) string {
	t := theme.Active

	if len(a.records) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		return dimStyle.Render("  No records in this window yet.") + "\n"
	}

	series := dailySeries(a.records, a.rep.Start, a.rep.End)

	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	labelW := 0
	for _, id := range ids {
		if w := len(a.metricLabel(id)); w > labelW {
			labelW = w
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var lines []string
	for _, id := range ids {
		values := series[id]
		total := 0.0
		for _, v := range values {
			total += v
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, a.metricLabel(id))),
			cli.RenderSparkline(values),
			totalStyle.Render(cli.FormatValue(total))))
	}

	title := fmt.Sprintf("Daily Actuals  %s", cli.FormatDateRange(a.rep.Start, a.rep.End))
	return components.ContentCard(title, strings.Join(lines, "\n"), cw) + "\n"
}

// dailySeries pivots records into one day-indexed value slice per metric.
func dailySeries(records []model.DailyRecord, start, end time.Time) map[string][]float64 {
	days := int(model.Day(end).Sub(model.Day(start)).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	series := make(map[string][]float64)
	for _, rec := range records {
		idx := int(model.Day(rec.Date).Sub(model.Day(start)).Hours() / 24)
		if idx < 0 || idx >= days {
			continue
		}
		for id, v := range rec.Values {
			if _, ok := series[id]; !ok {
				series[id] = make([]float64, days)
			}
			series[id][idx] = v.Actual
		}
	}
	return series
}
