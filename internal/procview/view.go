package procview

import (
	"time"

	"github.com/rileyhilliard/rtop/internal/proc"
)

// Options configures a new View.
type Options struct {
	Sort    SortSpec
	Tree    bool
	Columns []ColumnConfig

	// FilterHonorsCollapsed keeps collapsed subtrees collapsed while a
	// filter is active in tree mode.
	FilterHonorsCollapsed bool
}

// Totals summarizes a snapshot for the header line.
type Totals struct {
	Processes int
	Running   int
	Threads   int
	CPU       float64
	Memory    uint64

	// System is machine-wide usage; zero when the source does not report it.
	System proc.SystemStats
}

// View is the single owner of the displayed process state. It is not safe
// for concurrent use; callers apply snapshots and user intents from one
// goroutine and hand the renderer the Frame built afterwards.
type View struct {
	forest  *proc.Forest
	state   *State
	columns *Columns
	sort    SortSpec
	filter  Filter
	tree    bool
	details DetailsCache
	tick    uint64
	totals  Totals
	updated time.Time

	filterHonorsCollapsed bool
}

// New returns an empty view.
func New(opts Options) *View {
	sort := opts.Sort
	if !sort.Key.Known() {
		sort = DefaultSort
	}
	return &View{
		state:   NewState(),
		columns: NewColumns(opts.Columns),
		sort:    sort,
		tree:    opts.Tree,

		filterHonorsCollapsed: opts.FilterHonorsCollapsed,
	}
}

// Update applies a new snapshot: the forest is rebuilt, UI state is
// reconciled onto it, and the visible order and selection are recomputed.
func (v *View) Update(records []proc.Record) {
	v.UpdateAt(records, time.Now())
}

// UpdateAt is Update with an explicit snapshot time.
func (v *View) UpdateAt(records []proc.Record, at time.Time) {
	v.tick++
	v.updated = at
	v.forest = proc.BuildForest(records)
	v.state.Reconcile(v.forest)
	v.totals = totalsOf(v.forest)
	v.refresh()
}

func totalsOf(f *proc.Forest) Totals {
	var t Totals
	f.Walk(func(n *proc.Node, _ int) bool {
		m := n.Record.Metrics
		t.Processes++
		t.Threads += int(m.Threads)
		t.CPU += m.CPUPercent
		t.Memory += m.MemoryBytes
		if stateLetter(m.State) == "R" {
			t.Running++
		}
		return true
	})
	return t
}

func (v *View) refresh() {
	v.state.SetRows(ComputeRows(v.forest, v.sort, v.filter, v.tree), v.tree)
}

// SetSystemStats records machine-wide usage for the current snapshot. It is
// cleared by the next Update.
func (v *View) SetSystemStats(s proc.SystemStats) { v.totals.System = s }

// Tick returns the number of snapshots applied so far.
func (v *View) Tick() uint64 { return v.tick }

// UpdatedAt returns the time of the last applied snapshot.
func (v *View) UpdatedAt() time.Time { return v.updated }

// Totals returns the summary of the last snapshot.
func (v *View) Totals() Totals { return v.totals }

// Forest returns the current forest. Callers must not modify it.
func (v *View) Forest() *proc.Forest { return v.forest }

// Columns returns the column layout.
func (v *View) Columns() *Columns { return v.columns }

// Rows returns the visible order.
func (v *View) Rows() []Row { return v.state.Rows() }

// Selected returns the selected PID, if any.
func (v *View) Selected() (proc.PID, bool) { return v.state.Selected() }

// SelectedIndex returns the row index of the selection, or -1.
func (v *View) SelectedIndex() int { return v.state.SelectedIndex() }

// Select selects a visible process.
func (v *View) Select(id proc.PID) bool { return v.state.Select(id) }

// SelectDelta moves the selection by delta rows.
func (v *View) SelectDelta(delta int) bool { return v.state.SelectDelta(delta) }

// SelectFirst selects the first row.
func (v *View) SelectFirst() bool { return v.state.SelectDelta(-len(v.state.Rows())) }

// SelectLast selects the last row.
func (v *View) SelectLast() bool { return v.state.SelectDelta(len(v.state.Rows())) }

// SelectParent moves the selection to the parent of the selected process
// when it is visible.
func (v *View) SelectParent() bool {
	id, ok := v.state.Selected()
	if !ok {
		return false
	}
	p, ok := v.forest.Parent(id)
	if !ok {
		return false
	}
	return v.state.Select(p)
}

// ToggleExpand flips the expansion of id and recomputes the order.
func (v *View) ToggleExpand(id proc.PID) bool {
	if !v.state.ToggleExpand(id) {
		return false
	}
	v.refresh()
	return true
}

// SetExpanded expands or collapses id and recomputes the order.
func (v *View) SetExpanded(id proc.PID, expanded bool) bool {
	if !v.state.SetExpanded(id, expanded) {
		return false
	}
	v.refresh()
	return true
}

// IsExpanded reports the stored expansion of id.
func (v *View) IsExpanded(id proc.PID) bool { return v.state.IsExpanded(id) }

// Sort returns the active sort.
func (v *View) Sort() SortSpec { return v.sort }

// SetSort changes the sort and recomputes the order. Unknown keys are
// ignored.
func (v *View) SetSort(s SortSpec) bool {
	if !s.Key.Known() {
		return false
	}
	v.sort = s
	v.refresh()
	return true
}

// CycleSort moves the sort key to the next (or previous) visible column.
func (v *View) CycleSort(step int) {
	vis := v.columns.Visible()
	if len(vis) == 0 {
		return
	}
	cur := -1
	for i, c := range vis {
		if c.Key == v.sort.Key {
			cur = i
			break
		}
	}
	next := 0
	if cur >= 0 {
		next = ((cur+step)%len(vis) + len(vis)) % len(vis)
	}
	v.SetSort(SortSpec{Key: vis[next].Key, Ascending: v.sort.Ascending})
}

// InvertSort flips the sort direction.
func (v *View) InvertSort() {
	v.SetSort(SortSpec{Key: v.sort.Key, Ascending: !v.sort.Ascending})
}

// Filter returns the active filter.
func (v *View) Filter() Filter { return v.filter }

// SetFilter replaces the filter and recomputes the order.
func (v *View) SetFilter(query string) {
	v.filter = NewFilter(query)
	if v.filterHonorsCollapsed {
		v.filter = v.filter.HonorCollapsed()
	}
	v.refresh()
}

// TreeMode reports whether the view shows the hierarchy.
func (v *View) TreeMode() bool { return v.tree }

// SetTreeMode switches between tree and flat presentation.
func (v *View) SetTreeMode(tree bool) {
	v.tree = tree
	v.refresh()
}

// Details returns the details of the selected process for this tick.
func (v *View) Details() (Details, bool) {
	id, ok := v.state.Selected()
	if !ok {
		return Details{}, false
	}
	return v.details.Get(v.forest, id, v.tick)
}

// DetailsComputes returns how many times details were recomputed.
func (v *View) DetailsComputes() int { return v.details.Computes() }

// ScrollOffset returns the first row on screen.
func (v *View) ScrollOffset() int { return v.state.Scroll() }

// EnsureVisible scrolls so the selection fits a page of the given height.
func (v *View) EnsureVisible(page int) { v.state.EnsureVisible(page) }

// Record returns the record for id.
func (v *View) Record(id proc.PID) (proc.Record, bool) {
	n, ok := v.forest.Lookup(id)
	if !ok {
		return proc.Record{}, false
	}
	return n.Record, true
}

// ExpansionForced reports whether an active tree filter is showing every
// kept subtree expanded regardless of the stored expansion.
func (v *View) ExpansionForced() bool {
	return v.tree && v.filter.Active() && !v.filter.honorCollapsed
}

// CollapseOrParent collapses the selected process, or selects its parent
// when it is already collapsed, has no children, or its expansion is
// forced by the filter.
func (v *View) CollapseOrParent() bool {
	id, ok := v.state.Selected()
	if !ok {
		return false
	}
	if v.tree && !v.ExpansionForced() && v.state.IsExpanded(id) && v.SetExpanded(id, false) {
		return true
	}
	return v.SelectParent()
}

// ExpandSelected expands the selected process. It does nothing while the
// filter forces expansion.
func (v *View) ExpandSelected() bool {
	id, ok := v.state.Selected()
	if !ok || !v.tree || v.ExpansionForced() {
		return false
	}
	return v.SetExpanded(id, true)
}

// ToggleSelected flips the expansion of the selected process. It does
// nothing while the filter forces expansion.
func (v *View) ToggleSelected() bool {
	id, ok := v.state.Selected()
	if !ok || !v.tree || v.ExpansionForced() {
		return false
	}
	return v.ToggleExpand(id)
}
