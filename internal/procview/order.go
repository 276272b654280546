package procview

import (
	"slices"
	"strings"

	"github.com/rileyhilliard/rtop/internal/proc"
)

// SortSpec selects the ordering attribute and direction.
type SortSpec struct {
	Key       Attr
	Ascending bool
}

// DefaultSort orders by CPU usage, busiest first.
var DefaultSort = SortSpec{Key: AttrCPU}

// compare orders by the sort key, then by ascending PID regardless of
// direction, so equal keys keep a stable order.
func (s SortSpec) compare(a, b proc.Record) int {
	c := s.Key.Compare(a, b)
	if !s.Ascending {
		c = -c
	}
	if c != 0 {
		return c
	}
	switch {
	case a.PID < b.PID:
		return -1
	case a.PID > b.PID:
		return 1
	}
	return 0
}

// Filter is a case-insensitive substring match over name, state, and user.
// The zero value matches everything.
type Filter struct {
	query string

	// honorCollapsed keeps collapsed ancestors of matches collapsed in tree
	// mode instead of revealing the matches.
	honorCollapsed bool
}

// NewFilter returns a filter for query. Surrounding whitespace is ignored.
func NewFilter(query string) Filter {
	return Filter{query: strings.ToLower(strings.TrimSpace(query))}
}

// HonorCollapsed returns a copy of f that leaves collapsed subtrees
// collapsed in tree mode. Matches inside them stay reachable through their
// retained ancestors.
func (f Filter) HonorCollapsed() Filter {
	f.honorCollapsed = true
	return f
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return f.query != ""
}

// Query returns the normalized query.
func (f Filter) Query() string {
	return f.query
}

// Match reports whether r passes the filter.
func (f Filter) Match(r proc.Record) bool {
	if f.query == "" {
		return true
	}
	for _, s := range []string{r.Name, r.Metrics.State, r.Metrics.User} {
		if strings.Contains(strings.ToLower(s), f.query) {
			return true
		}
	}
	return false
}

// Row is one line of the visible order.
type Row struct {
	PID         proc.PID
	Depth       int
	HasChildren bool   // has children that would show when expanded
	Expanded    bool   // effective expansion, including filter-forced
	Last        bool   // last among its displayed siblings
	Open        []bool // Open[d]: the ancestor at depth d has later siblings
}

// ComputeRows materializes the visible order of f. In tree mode siblings
// are sorted within their group and collapsed subtrees are skipped; while a
// filter is active, ancestors of matches are kept and, unless the filter
// honors collapsed nodes, shown expanded without touching the stored
// expansion state. In flat mode every matching
// record is sorted globally at depth 0.
func ComputeRows(f *proc.Forest, sort SortSpec, filter Filter, tree bool) []Row {
	if f == nil || f.Len() == 0 {
		return nil
	}
	if !tree {
		return flatRows(f, sort, filter)
	}
	return treeRows(f, sort, filter)
}

func flatRows(f *proc.Forest, sort SortSpec, filter Filter) []Row {
	recs := f.Records()
	kept := recs[:0]
	for _, r := range recs {
		if filter.Match(r) {
			kept = append(kept, r)
		}
	}
	slices.SortStableFunc(kept, sort.compare)
	rows := make([]Row, len(kept))
	for i, r := range kept {
		rows[i] = Row{PID: r.PID, Last: i == len(kept)-1}
	}
	return rows
}

func treeRows(f *proc.Forest, sort SortSpec, filter Filter) []Row {
	var keep map[proc.PID]bool
	if filter.Active() {
		keep = make(map[proc.PID]bool, f.Len())
		var mark func(n *proc.Node) bool
		mark = func(n *proc.Node) bool {
			k := filter.Match(n.Record)
			for _, c := range n.Children {
				if mark(c) {
					k = true
				}
			}
			keep[n.Record.PID] = k
			return k
		}
		for _, r := range f.Roots {
			mark(r)
		}
	}
	visible := func(nodes []*proc.Node) []*proc.Node {
		out := make([]*proc.Node, 0, len(nodes))
		for _, n := range nodes {
			if keep == nil || keep[n.Record.PID] {
				out = append(out, n)
			}
		}
		slices.SortStableFunc(out, func(a, b *proc.Node) int { return sort.compare(a.Record, b.Record) })
		return out
	}

	rows := make([]Row, 0, f.Len())
	var open []bool
	var visit func(n *proc.Node, depth int, last bool)
	visit = func(n *proc.Node, depth int, last bool) {
		children := visible(n.Children)
		expanded := n.Expanded || (keep != nil && !filter.honorCollapsed)
		rows = append(rows, Row{
			PID:         n.Record.PID,
			Depth:       depth,
			HasChildren: len(children) > 0,
			Expanded:    expanded && len(children) > 0,
			Last:        last,
			Open:        slices.Clone(open),
		})
		if !expanded {
			return
		}
		open = append(open, !last)
		for i, c := range children {
			visit(c, depth+1, i == len(children)-1)
		}
		open = open[:len(open)-1]
	}
	roots := visible(f.Roots)
	for i, r := range roots {
		visit(r, 0, i == len(roots)-1)
	}
	return rows
}
