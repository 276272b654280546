package procview

import (
	"time"

	"github.com/rileyhilliard/rtop/internal/proc"
)

// expansion records a user's expand/collapse choice for one process.
type expansion struct {
	expanded bool
	start    time.Time
}

// State is the UI state that must survive refreshes: per-process expansion,
// the selection, and the scroll offset. Processes are identified by PID and
// start time, so a reused PID does not inherit a dead process's state.
type State struct {
	forest   *proc.Forest
	expanded map[proc.PID]expansion

	rows  []Row
	index map[proc.PID]int

	selected      proc.PID
	selectedStart time.Time
	hasSelection  bool

	scroll int
}

// NewState returns an empty state. Processes default to expanded.
func NewState() *State {
	return &State{
		expanded: make(map[proc.PID]expansion),
		index:    make(map[proc.PID]int),
	}
}

// Reconcile adopts f as the current forest: expansion entries for processes
// that are gone (or whose PID now belongs to another process) are dropped,
// and the remaining entries are copied onto f's nodes. Reconciling the same
// forest twice has no further effect.
func (s *State) Reconcile(f *proc.Forest) {
	s.forest = f
	for pid, e := range s.expanded {
		n, ok := f.Lookup(pid)
		if !ok || !sameStart(e.start, n.Record.Metrics.StartTime) {
			delete(s.expanded, pid)
		}
	}
	f.Walk(func(n *proc.Node, _ int) bool {
		n.Expanded = true
		if e, ok := s.expanded[n.Record.PID]; ok {
			n.Expanded = e.expanded
		}
		return true
	})
}

func sameStart(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return true
	}
	return a.Equal(b)
}

// SetExpanded records an expansion choice for id. Nodes without children
// are left alone.
func (s *State) SetExpanded(id proc.PID, expanded bool) bool {
	n, ok := s.forest.Lookup(id)
	if !ok || !n.HasChildren() {
		return false
	}
	s.expanded[id] = expansion{expanded: expanded, start: n.Record.Metrics.StartTime}
	n.Expanded = expanded
	return true
}

// ToggleExpand flips the expansion of id.
func (s *State) ToggleExpand(id proc.PID) bool {
	n, ok := s.forest.Lookup(id)
	if !ok {
		return false
	}
	return s.SetExpanded(id, !n.Expanded)
}

// IsExpanded reports the stored expansion of id.
func (s *State) IsExpanded(id proc.PID) bool {
	n, ok := s.forest.Lookup(id)
	return ok && n.Expanded
}

// SetRows installs a freshly computed visible order and repairs the
// selection. A selection that is still visible is kept. In tree mode a
// selected process that still exists but is hidden moves to its nearest
// visible ancestor. Otherwise the selection falls to the nearest following
// row of the previous order that is still visible, then to the first row,
// then to nothing.
func (s *State) SetRows(rows []Row, tree bool) {
	prev := s.rows
	s.rows = rows
	s.index = make(map[proc.PID]int, len(rows))
	for i, r := range rows {
		s.index[r.PID] = i
	}

	if !s.hasSelection {
		s.selectFirst()
		return
	}
	n, alive := s.forest.Lookup(s.selected)
	alive = alive && sameStart(s.selectedStart, n.Record.Metrics.StartTime)
	if alive {
		if _, ok := s.index[s.selected]; ok {
			return
		}
		if tree {
			for _, a := range s.forest.Ancestors(s.selected) {
				if _, ok := s.index[a]; ok {
					s.selectPID(a)
					return
				}
			}
		}
	}
	from := -1
	for i, r := range prev {
		if r.PID == s.selected {
			from = i
			break
		}
	}
	if from >= 0 {
		for _, r := range prev[from+1:] {
			if _, ok := s.index[r.PID]; ok && r.PID != s.selected {
				s.selectPID(r.PID)
				return
			}
		}
	}
	s.selectFirst()
}

func (s *State) selectFirst() {
	if len(s.rows) == 0 {
		s.hasSelection = false
		s.selected = 0
		s.selectedStart = time.Time{}
		return
	}
	s.selectPID(s.rows[0].PID)
}

func (s *State) selectPID(id proc.PID) {
	s.selected = id
	s.hasSelection = true
	s.selectedStart = time.Time{}
	if n, ok := s.forest.Lookup(id); ok {
		s.selectedStart = n.Record.Metrics.StartTime
	}
}

// Rows returns the current visible order.
func (s *State) Rows() []Row {
	return s.rows
}

// Selected returns the selected PID, if any.
func (s *State) Selected() (proc.PID, bool) {
	return s.selected, s.hasSelection
}

// SelectedIndex returns the row index of the selection, or -1.
func (s *State) SelectedIndex() int {
	if !s.hasSelection {
		return -1
	}
	if i, ok := s.index[s.selected]; ok {
		return i
	}
	return -1
}

// Select selects id if it is visible.
func (s *State) Select(id proc.PID) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.selectPID(id)
	return true
}

// SelectDelta moves the selection by delta rows, clamped to the ends.
func (s *State) SelectDelta(delta int) bool {
	if len(s.rows) == 0 {
		return false
	}
	cur := s.SelectedIndex()
	if cur < 0 {
		cur = 0
		delta = max(delta, 0)
	}
	next := max(0, min(len(s.rows)-1, cur+delta))
	if next == cur && s.hasSelection {
		return false
	}
	s.selectPID(s.rows[next].PID)
	return true
}

// Scroll returns the index of the first row on screen.
func (s *State) Scroll() int {
	return s.scroll
}

// EnsureVisible adjusts the scroll offset so the selection is on a page of
// the given height, and keeps the offset within the row count.
func (s *State) EnsureVisible(page int) {
	if page < 1 {
		page = 1
	}
	if i := s.SelectedIndex(); i >= 0 {
		if i < s.scroll {
			s.scroll = i
		} else if i >= s.scroll+page {
			s.scroll = i - page + 1
		}
	}
	s.scroll = max(0, min(s.scroll, len(s.rows)-page))
}
