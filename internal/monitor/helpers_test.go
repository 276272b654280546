package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/proc"
	"github.com/rileyhilliard/rtop/internal/procview"
)

func init() {
	// Plain output keeps rendered text assertable.
	lipgloss.SetColorProfile(termenv.Ascii)
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func rec(pid, ppid proc.PID, name string, cpu float64) proc.Record {
	return proc.Record{
		PID:  pid,
		PPID: ppid,
		Name: name,
		Metrics: proc.Metrics{
			CPUPercent:  cpu,
			MemoryBytes: uint64(pid) * 1024 * 1024,
			State:       "sleep",
			User:        "root",
			Threads:     1,
			StartTime:   testNow.Add(-time.Hour),
		},
	}
}

// testRecords is init(1) with shell(2) -> chrome(3) and bash(4).
func testRecords() []proc.Record {
	return []proc.Record{
		rec(1, proc.NoParent, "init", 0.5),
		rec(2, 1, "shell", 1),
		rec(3, 2, "chrome", 40),
		rec(4, 1, "bash", 0.2),
	}
}

// newTestModel returns a sized model with no collector attached.
func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	v := procview.New(procview.Options{Sort: procview.DefaultSort, Tree: true})
	m := NewModel(v, nil, opts)
	m.now = func() time.Time { return testNow }
	return update(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
}

// withSnapshot applies testRecords as a successful snapshot.
func withSnapshot(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, snapshotMsg(Result{Records: testRecords(), At: testNow, Took: 3 * time.Millisecond}))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update must return a Model")
	return nm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return keyRunes(k)
}

func selectedPID(m Model) proc.PID {
	id, ok := m.view.Selected()
	if !ok {
		return -1
	}
	return id
}
