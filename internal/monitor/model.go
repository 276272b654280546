package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/procview"
)

// Layout breakpoints and fixed heights.
const (
	headerHeight  = 2 // summary line + column titles
	footerHeight  = 2 // status/filter line + key hints
	detailsHeight = 10

	// statusTTL is how long a transient status message stays visible.
	statusTTL = 5 * time.Second
	// clockInterval drives the "updated Xs ago" display.
	clockInterval = time.Second
)

// Layout is the part of the dashboard state that is persisted.
type Layout struct {
	Columns []procview.ColumnConfig
	Sort    procview.SortSpec
	Tree    bool
	Details bool
}

// Options configures a Model.
type Options struct {
	// Details shows the details panel on startup.
	Details bool

	// Save persists the layout when the user asks for it. Nil disables
	// the save key.
	Save func(Layout) error

	Logger logger.Logger
}

// Model is the Bubble Tea model for the process dashboard. All mutation of
// the view happens in Update, so snapshots and key presses are applied one
// at a time and View always draws a complete frame.
type Model struct {
	view      *procview.View
	collector *Collector
	history   *History
	log       logger.Logger
	save      func(Layout) error

	keys       KeyMap
	columnKeys ColumnKeyMap
	help       help.Model
	filter     textinput.Model
	details    viewport.Model

	mode         Mode
	showHelp     bool
	showDetails  bool
	columnCursor int

	width      int
	height     int
	lastUpdate time.Time
	lastTook   time.Duration
	quitting   bool

	status      string
	statusErr   bool
	statusUntil time.Time

	frame procview.Frame
	now   func() time.Time
}

// snapshotMsg carries a collector result into Update.
type snapshotMsg Result

// collectorDoneMsg signals that the collector stopped.
type collectorDoneMsg struct{}

// clockMsg refreshes time-relative text.
type clockMsg time.Time

// NewModel creates a dashboard over view, fed by collector. The collector
// must be started separately with Run.
func NewModel(view *procview.View, collector *Collector, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name, state or user"
	ti.CharLimit = 64

	m := Model{
		view:        view,
		collector:   collector,
		history:     NewHistory(DefaultHistorySize),
		log:         logger.With(log, "monitor"),
		save:        opts.Save,
		keys:        DefaultKeyMap(),
		columnKeys:  DefaultColumnKeyMap(),
		help:        help.New(),
		filter:      ti,
		details:     viewport.New(0, detailsHeight-2),
		showDetails: opts.Details,
		now:         time.Now,
	}
	m.refreshFrame()
	return m
}

// Init starts waiting for snapshots and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForSnapshot(),
		m.clockCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case snapshotMsg:
		m.applySnapshot(Result(msg))
		return m, m.waitForSnapshot()

	case collectorDoneMsg:
		m.log.Debug("snapshot channel closed")

	case clockMsg:
		if !m.statusUntil.IsZero() && m.now().After(m.statusUntil) {
			m.status, m.statusErr, m.statusUntil = "", false, time.Time{}
		}
		return m, m.clockCmd()
	}

	if m.showDetails {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// applySnapshot reconciles a collector result into the view. A failed
// snapshot keeps the previous view and raises a status message.
func (m *Model) applySnapshot(res Result) {
	if res.Err != nil {
		m.setStatus("refresh failed: "+errors.Summary(res.Err), true)
		return
	}
	m.view.UpdateAt(res.Records, res.At)
	m.view.SetSystemStats(res.System)
	m.history.Push(res.Records)
	m.lastUpdate = res.At
	m.lastTook = res.Took
	if m.statusErr {
		m.status, m.statusErr, m.statusUntil = "", false, time.Time{}
	}
	m.refreshFrame()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.statusUntil = m.now().Add(statusTTL)
}

// waitForSnapshot returns a command that blocks until the collector
// delivers the next result.
func (m Model) waitForSnapshot() tea.Cmd {
	if m.collector == nil {
		return nil
	}
	results := m.collector.Results()
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return collectorDoneMsg{}
		}
		return snapshotMsg(res)
	}
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// resize recomputes panel sizes after the window or panel set changed.
func (m *Model) resize() {
	m.details.Width = max(m.width-4, 0)
	m.details.Height = detailsHeight - 2
	m.refreshFrame()
}

// tableHeight is the number of process rows that fit on screen.
func (m Model) tableHeight() int {
	h := m.height - headerHeight - footerHeight
	if m.showDetails {
		h -= detailsHeight
	}
	return max(h, 1)
}

// refreshFrame rebuilds the immutable frame that View draws from.
func (m *Model) refreshFrame() {
	m.frame = m.view.Frame(m.tableHeight(), m.showDetails)
	if m.showDetails {
		m.details.SetContent(m.renderDetailsContent())
	}
}

// Layout returns the current persistable layout.
func (m Model) Layout() Layout {
	return Layout{
		Columns: m.view.Columns().All(),
		Sort:    m.view.Sort(),
		Tree:    m.view.TreeMode(),
		Details: m.showDetails,
	}
}

func (m *Model) savePreferences() {
	if m.save == nil {
		return
	}
	if err := m.save(m.Layout()); err != nil {
		m.log.Error("saving preferences: %v", err)
		m.setStatus("save failed: "+errors.Summary(err), true)
		return
	}
	m.setStatus("preferences saved", false)
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// SecondsSinceUpdate returns how many seconds have passed since the last update.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.lastUpdate).Seconds())
}
