// Package tui provides the interactive Bubble Tea dashboard for planfact.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/report"
	"github.com/planfacthq/planfact/internal/store"
	"github.com/planfacthq/planfact/internal/tui/components"
	"github.com/planfacthq/planfact/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ReportLoadedMsg is sent when a report (re)build finishes.
type ReportLoadedMsg struct {
	Report  *report.Report
	Records []model.DailyRecord
	Targets []model.PlanTarget
	Metrics []model.MetricDefinition
	Err     error
}

// LogSavedMsg is sent when a quick-log write settles.
type LogSavedMsg struct {
	Record model.DailyRecord
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	builder *report.Builder
	owner   string
	period  report.Period
	ref     time.Time

	// Loaded data for the current window
	rep         *report.Report
	records     []model.DailyRecord
	targets     []model.PlanTarget
	metricNames map[string]string
	loaded      bool
	loadErr     error

	// Quick-log write overlay: staged pending, confirmed on save
	overlay *report.Overlay

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string

	// Quick-log form (huh). Values live behind a pointer so the form's
	// bindings survive model copies.
	logForm *huh.Form
	logVals *logValues
	logging bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
)

// NewApp creates a new TUI app model.
func NewApp(s *store.Store, builder *report.Builder, owner string, period report.Period, ref time.Time) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		store:   s,
		builder: builder,
		owner:   owner,
		period:  period,
		ref:     ref,
		overlay: report.NewOverlay(),
		spinner: sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadReportCmd(false),
		a.spinner.Tick,
	)
}

// loadReportCmd builds the report for the current window off the UI
// goroutine. force bypasses the report cache.
func (a App) loadReportCmd(force bool) tea.Cmd {
	s, builder := a.store, a.builder
	owner, period, ref := a.owner, a.period, a.ref

	return func() tea.Msg {
		start, end := report.Bounds(period, ref)

		var rep *report.Report
		var err error
		if force {
			rep, err = builder.Refresh(owner, start, end, ref)
		} else {
			rep, err = builder.Build(owner, start, end, ref)
		}
		if err != nil {
			return ReportLoadedMsg{Err: err}
		}

		records, err := s.FetchDailyRecords(owner, start, end)
		if err != nil {
			return ReportLoadedMsg{Err: err}
		}
		targets, err := s.FetchPlanTargets(owner)
		if err != nil {
			return ReportLoadedMsg{Err: err}
		}
		metrics, _ := s.ListMetrics()

		return ReportLoadedMsg{Report: rep, Records: records, Targets: targets, Metrics: metrics}
	}
}

// saveLogCmd persists a staged quick-log record.
func (a App) saveLogCmd(rec model.DailyRecord) tea.Cmd {
	s := a.store
	return func() tea.Msg {
		return LogSavedMsg{Record: rec, Err: s.SaveDailyRecord(rec)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.logForm != nil {
			a.logForm = a.logForm.WithWidth(msg.Width)
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded && !a.logging {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ReportLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		if msg.Err != nil {
			return a, nil
		}
		a.rep = msg.Report
		// Merge writes confirmed while this load was in flight, then
		// drop them: the next fetch reads them from the store.
		a.records = a.overlay.Apply(msg.Records)
		a.overlay.Prune()
		a.targets = msg.Targets
		a.metricNames = make(map[string]string, len(msg.Metrics))
		for _, m := range msg.Metrics {
			a.metricNames[m.ID] = m.Name
		}
		return a, nil

	case LogSavedMsg:
		if msg.Err != nil {
			a.overlay.Rollback(msg.Record.OwnerID, msg.Record.Date)
			a.notice = fmt.Sprintf("save failed: %v", msg.Err)
			return a, nil
		}
		a.overlay.Confirm(msg.Record.OwnerID, msg.Record.Date)
		// Surface the confirmed write immediately; the reload that
		// follows refetches it from the store and prunes the overlay.
		a.records = a.overlay.Apply(a.records)
		a.builder.Invalidate(msg.Record.OwnerID)
		a.notice = "logged"
		return a, a.loadReportCmd(false)

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Forward everything else to the active log form
	if a.logging && a.logForm != nil {
		return a.updateLogForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.logging && a.logForm != nil {
		if key == "esc" {
			a.logging = false
			a.logForm = nil
			a.logVals = nil
			return a, nil
		}
		return a.updateLogForm(msg)
	}

	if !a.loaded {
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		a.loaded = false
		return a, tea.Batch(a.loadReportCmd(true), a.spinner.Tick)
	case "p":
		a.period = nextPeriod(a.period)
		a.loaded = false
		return a, tea.Batch(a.loadReportCmd(false), a.spinner.Tick)
	case "l":
		return a.startLogForm()
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	return a, nil
}

func nextPeriod(p report.Period) report.Period {
	switch p {
	case report.PeriodDay:
		return report.PeriodWeek
	case report.PeriodWeek:
		return report.PeriodMonth
	default:
		return report.PeriodDay
	}
}

type logValues struct {
	metric string
	value  string
}

// startLogForm opens the quick-log form with the known metrics as options.
func (a App) startLogForm() (tea.Model, tea.Cmd) {
	a.logVals = &logValues{}

	options := make([]huh.Option[string], 0, len(a.metricNames))
	if a.rep != nil {
		for _, id := range a.rep.MetricIDs() {
			options = append(options, huh.NewOption(a.metricLabel(id), id))
		}
	}
	for id := range a.metricNames {
		if a.rep != nil {
			if _, ok := a.rep.Summary[id]; ok {
				continue
			}
		}
		options = append(options, huh.NewOption(a.metricLabel(id), id))
	}

	var metricField huh.Field
	if len(options) > 0 {
		metricField = huh.NewSelect[string]().
			Title("Metric").
			Options(options...).
			Value(&a.logVals.metric)
	} else {
		metricField = huh.NewInput().
			Title("Metric ID").
			Value(&a.logVals.metric)
	}

	a.logForm = huh.NewForm(huh.NewGroup(
		metricField,
		huh.NewInput().
			Title(fmt.Sprintf("Actual for %s", a.ref.Format(model.DateFormat))).
			Validate(validNumber).
			Value(&a.logVals.value),
	))
	a.logging = true
	return a, a.logForm.Init()
}

func validNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("not a number")
	}
	return nil
}

func (a App) updateLogForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.logForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.logForm = f
	}

	if a.logForm.State != huh.StateCompleted {
		return a, cmd
	}

	a.logging = false
	a.logForm = nil
	vals := a.logVals
	a.logVals = nil

	actual, err := strconv.ParseFloat(strings.TrimSpace(vals.value), 64)
	if err != nil || vals.metric == "" {
		a.notice = "log discarded"
		return a, nil
	}

	rec := a.mergedDayRecord(vals.metric, actual)
	a.overlay.Stage(rec)
	a.notice = "saving..."
	return a, a.saveLogCmd(rec)
}

// mergedDayRecord folds the new value into the reference day's record
// so one quick log does not wipe the day's other metrics.
func (a App) mergedDayRecord(metricID string, actual float64) model.DailyRecord {
	rec := model.DailyRecord{
		OwnerID: a.owner,
		Date:    model.Day(a.ref),
		Values:  map[string]model.MetricValue{},
	}
	for _, existing := range a.records {
		if !model.SameDay(existing.Date, rec.Date) {
			continue
		}
		for id, v := range existing.Values {
			rec.Values[id] = v
		}
		break
	}

	v := rec.Values[metricID]
	v.Actual = actual
	rec.Values[metricID] = v
	return rec
}

func (a App) metricLabel(id string) string {
	if name, ok := a.metricNames[id]; ok && name != "" {
		return name
	}
	return id
}

// View implements tea.Model.
func (a App) View() string {
	t := theme.Active

	if a.width > 0 && a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d)\n", a.width, minTerminalWidth)
	}

	if !a.loaded {
		return fmt.Sprintf("\n\n  %s Building report...\n", a.spinner.View())
	}
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		return "\n  " + errStyle.Render(fmt.Sprintf("Error: %v", a.loadErr)) + "\n\n  [q]uit  [r]etry\n"
	}

	if a.logging && a.logForm != nil {
		return "\n" + a.logForm.View()
	}

	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.RenderTabBar(a.activeTab))
	b.WriteString("\n\n")

	if a.showHelp {
		b.WriteString(a.renderHelp())
	} else {
		switch a.activeTab {
		case 0:
			b.WriteString(a.renderOverviewTab(cw))
		case 1:
			b.WriteString(a.renderTargetsTab(cw))
		case 2:
			b.WriteString(a.renderHistoryTab(cw))
		}
	}

	b.WriteString("\n")
	left := " [l]og  [p]eriod  [r]efresh  [?]help  [q]uit"
	right := a.statusRight()
	b.WriteString(components.RenderStatusBar(cw, left, right))

	return b.String()
}

func (a App) statusRight() string {
	parts := []string{fmt.Sprintf("%s · %s", a.owner, a.period)}
	if a.overlay.InFlight(a.owner, a.ref) {
		parts = append(parts, "saving")
	}
	if a.notice != "" {
		parts = append(parts, a.notice)
	}
	return strings.Join(parts, "  ") + " "
}

func (a App) renderHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	lines := []struct{ key, desc string }{
		{"o / t / h", "switch tabs"},
		{"tab", "next tab"},
		{"l", "quick-log a value for today"},
		{"p", "cycle period (day, week, month)"},
		{"r", "refresh, bypassing the report cache"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString("  Keys\n\n")
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", l.key)), descStyle.Render(l.desc)))
	}
	return b.String()
}
