package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/rtop/internal/procview"
)

// Mode is the current input mode of the dashboard.
type Mode int

const (
	ModeTable Mode = iota
	ModeFilter
	ModeColumns
)

// String returns a human-readable label for the mode.
func (m Mode) String() string {
	switch m {
	case ModeFilter:
		return "filter"
	case ModeColumns:
		return "columns"
	default:
		return "table"
	}
}

// KeyMap holds the table-mode key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Collapse key.Binding
	Expand   key.Binding
	Toggle   key.Binding
	Tree     key.Binding
	Details  key.Binding
	Filter   key.Binding
	SortNext key.Binding
	SortPrev key.Binding
	Invert   key.Binding
	SortCPU  key.Binding
	SortMem  key.Binding
	SortName key.Binding
	SortPID  key.Binding
	Columns  key.Binding
	Save     key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse / parent")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle subtree")),
		Tree:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tree/flat")),
		Details:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		SortNext: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sort column")),
		SortPrev: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "previous sort column")),
		Invert:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert sort")),
		SortCPU:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort by CPU")),
		SortMem:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sort by memory")),
		SortName: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sort by name")),
		SortPID:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sort by PID")),
		Columns:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "configure columns")),
		Save:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save preferences")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Tree, k.Details, k.Filter, k.SortNext, k.Columns, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Collapse, k.Expand, k.Toggle, k.Tree, k.Details, k.Filter},
		{k.SortNext, k.SortPrev, k.Invert, k.SortCPU, k.SortMem, k.SortName, k.SortPID},
		{k.Columns, k.Save, k.Refresh, k.Help, k.Quit},
	}
}

// ColumnKeyMap holds the column-configuration bindings.
type ColumnKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Left   key.Binding
	Right  key.Binding
	Narrow key.Binding
	Widen  key.Binding
	Done   key.Binding
}

// DefaultColumnKeyMap returns the standard column-configuration bindings.
func DefaultColumnKeyMap() ColumnKeyMap {
	return ColumnKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "show/hide")),
		Left:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move left")),
		Right:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move right")),
		Narrow: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
		Widen:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
		Done:   key.NewBinding(key.WithKeys("esc", "C"), key.WithHelp("esc", "done")),
	}
}

// ShortHelp implements help.KeyMap.
func (k ColumnKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Left, k.Right, k.Narrow, k.Widen, k.Done}
}

// FullHelp implements help.KeyMap.
func (k ColumnKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return true, tea.Quit
	}

	// Help toggle takes priority outside the filter prompt
	if m.mode != ModeFilter && key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return true, nil
	}

	switch m.mode {
	case ModeFilter:
		return m.handleFilterKey(msg)
	case ModeColumns:
		return m.handleColumnsKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	v := m.view
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Up):
		v.SelectDelta(-1)
	case key.Matches(msg, m.keys.Down):
		v.SelectDelta(1)
	case key.Matches(msg, m.keys.PageUp):
		v.SelectDelta(-m.tableHeight())
	case key.Matches(msg, m.keys.PageDown):
		v.SelectDelta(m.tableHeight())
	case key.Matches(msg, m.keys.Home):
		v.SelectFirst()
	case key.Matches(msg, m.keys.End):
		v.SelectLast()

	case key.Matches(msg, m.keys.Collapse):
		v.CollapseOrParent()
	case key.Matches(msg, m.keys.Expand), key.Matches(msg, m.keys.Toggle):
		if v.ExpansionForced() {
			m.setStatus("subtrees stay open while filtering", false)
		} else if key.Matches(msg, m.keys.Expand) {
			v.ExpandSelected()
		} else {
			v.ToggleSelected()
		}

	case key.Matches(msg, m.keys.Tree):
		v.SetTreeMode(!v.TreeMode())
	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		m.resize()

	case key.Matches(msg, m.keys.Filter):
		m.mode = ModeFilter
		m.filter.SetValue(v.Filter().Query())
		m.filter.CursorEnd()
		m.refreshFrame()
		return true, m.filter.Focus()

	case key.Matches(msg, m.keys.SortNext):
		v.CycleSort(1)
	case key.Matches(msg, m.keys.SortPrev):
		v.CycleSort(-1)
	case key.Matches(msg, m.keys.Invert):
		v.InvertSort()
	case key.Matches(msg, m.keys.SortCPU):
		m.sortBy(procview.AttrCPU)
	case key.Matches(msg, m.keys.SortMem):
		m.sortBy(procview.AttrMemory)
	case key.Matches(msg, m.keys.SortName):
		m.sortBy(procview.AttrName)
	case key.Matches(msg, m.keys.SortPID):
		m.sortBy(procview.AttrPID)

	case key.Matches(msg, m.keys.Columns):
		m.mode = ModeColumns
		m.columnCursor = 0

	case key.Matches(msg, m.keys.Save):
		m.savePreferences()
	case key.Matches(msg, m.keys.Refresh):
		if m.collector != nil {
			m.collector.Refresh()
		}

	default:
		return false, nil
	}

	m.refreshFrame()
	return true, nil
}

// sortBy selects a sort key, keeping the natural direction for it: names
// and PIDs ascend, metrics descend. Selecting the active key inverts it.
func (m *Model) sortBy(attr procview.Attr) {
	cur := m.view.Sort()
	if cur.Key == attr {
		m.view.InvertSort()
		return
	}
	asc := attr == procview.AttrName || attr == procview.AttrPID
	m.view.SetSort(procview.SortSpec{Key: attr, Ascending: asc})
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.Reset()
		m.filter.Blur()
		m.view.SetFilter("")
		m.mode = ModeTable
		m.refreshFrame()
		return true, nil
	case "enter":
		m.filter.Blur()
		m.mode = ModeTable
		m.refreshFrame()
		return true, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.view.SetFilter(m.filter.Value())
	m.refreshFrame()
	return true, cmd
}

func (m *Model) handleColumnsKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	cols := m.view.Columns()
	all := cols.All()
	if m.columnCursor >= len(all) {
		m.columnCursor = len(all) - 1
	}
	current := all[m.columnCursor].Key

	switch {
	case key.Matches(msg, m.columnKeys.Done):
		m.mode = ModeTable
	case key.Matches(msg, m.columnKeys.Up):
		m.columnCursor = max(0, m.columnCursor-1)
	case key.Matches(msg, m.columnKeys.Down):
		m.columnCursor = min(len(all)-1, m.columnCursor+1)
	case key.Matches(msg, m.columnKeys.Toggle):
		cols.ToggleVisible(current)
	case key.Matches(msg, m.columnKeys.Left):
		if cols.Move(current, -1) {
			m.columnCursor--
		}
	case key.Matches(msg, m.columnKeys.Right):
		if cols.Move(current, 1) {
			m.columnCursor++
		}
	case key.Matches(msg, m.columnKeys.Narrow):
		cols.Resize(current, -1)
	case key.Matches(msg, m.columnKeys.Widen):
		cols.Resize(current, 1)
	case msg.String() == "q":
		m.quitting = true
		return true, tea.Quit
	default:
		return false, nil
	}

	m.refreshFrame()
	return true, nil
}
