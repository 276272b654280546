package procview

import (
	"cmp"
	"slices"
	"time"

	"github.com/rileyhilliard/rtop/internal/proc"
)

const (
	// MinColumnWidth is the narrowest a column may be resized to.
	MinColumnWidth = 2
	// MaxColumnWidth is the widest a column may be resized to.
	MaxColumnWidth = 120
)

// ColumnConfig is the persisted layout of one column.
type ColumnConfig struct {
	Key     Attr
	Visible bool
	Width   int
	Order   int
}

// Columns owns the column layout and projects records into cells.
type Columns struct {
	cols []ColumnConfig // kept sorted by Order, orders are 0..n-1
	now  func() time.Time
}

// DefaultColumns returns the default layout for every known attribute.
func DefaultColumns() []ColumnConfig {
	out := make([]ColumnConfig, 0, len(attrOrder))
	for i, a := range attrOrder {
		s := attrs[a]
		out = append(out, ColumnConfig{Key: a, Visible: s.visible, Width: s.width, Order: i})
	}
	return out
}

// NewColumns builds a layout from a possibly incomplete or damaged
// configuration. See RepairColumns.
func NewColumns(cfg []ColumnConfig) *Columns {
	return &Columns{cols: RepairColumns(cfg), now: time.Now}
}

// RepairColumns makes cfg a complete layout: unknown and duplicate keys are
// dropped, out-of-range widths fall back to the default, attributes missing
// from cfg are appended with their default settings, and order keys are
// renumbered 0..n-1 preserving relative order.
func RepairColumns(cfg []ColumnConfig) []ColumnConfig {
	seen := make(map[Attr]bool, len(attrs))
	out := make([]ColumnConfig, 0, len(attrs))
	for _, c := range cfg {
		if !c.Key.Known() || seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		if c.Width < MinColumnWidth || c.Width > MaxColumnWidth {
			c.Width = attrs[c.Key].width
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b ColumnConfig) int { return cmp.Compare(a.Order, b.Order) })
	for _, a := range attrOrder {
		if seen[a] {
			continue
		}
		s := attrs[a]
		out = append(out, ColumnConfig{Key: a, Visible: s.visible, Width: s.width})
	}
	renumber(out)
	return out
}

func renumber(cols []ColumnConfig) {
	for i := range cols {
		cols[i].Order = i
	}
}

// SetClock replaces the time source used for relative cells such as START.
func (c *Columns) SetClock(now func() time.Time) {
	c.now = now
}

// All returns every column in display order, visible or not.
func (c *Columns) All() []ColumnConfig {
	return slices.Clone(c.cols)
}

// Visible returns the visible columns in display order.
func (c *Columns) Visible() []ColumnConfig {
	out := make([]ColumnConfig, 0, len(c.cols))
	for _, col := range c.cols {
		if col.Visible {
			out = append(out, col)
		}
	}
	return out
}

// Get returns the configuration of key.
func (c *Columns) Get(key Attr) (ColumnConfig, bool) {
	i := c.index(key)
	if i < 0 {
		return ColumnConfig{}, false
	}
	return c.cols[i], true
}

func (c *Columns) index(key Attr) int {
	return slices.IndexFunc(c.cols, func(col ColumnConfig) bool { return col.Key == key })
}

// SetVisible shows or hides a column. Order keys are untouched.
func (c *Columns) SetVisible(key Attr, visible bool) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.cols[i].Visible = visible
	return true
}

// ToggleVisible flips a column's visibility.
func (c *Columns) ToggleVisible(key Attr) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	return c.SetVisible(key, !c.cols[i].Visible)
}

// Move shifts a column delta positions in display order, clamped to the
// ends, and renumbers every order key.
func (c *Columns) Move(key Attr, delta int) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	j := max(0, min(len(c.cols)-1, i+delta))
	if i == j {
		return false
	}
	col := c.cols[i]
	c.cols = slices.Delete(c.cols, i, i+1)
	c.cols = slices.Insert(c.cols, j, col)
	renumber(c.cols)
	return true
}

// Resize changes a column's width by delta, clamped to
// [MinColumnWidth, MaxColumnWidth].
func (c *Columns) Resize(key Attr, delta int) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	w := max(MinColumnWidth, min(MaxColumnWidth, c.cols[i].Width+delta))
	if w == c.cols[i].Width {
		return false
	}
	c.cols[i].Width = w
	return true
}

// Project renders r's visible attributes in display order.
func (c *Columns) Project(r proc.Record) []string {
	now := c.now()
	out := make([]string, 0, len(c.cols))
	for _, col := range c.cols {
		if col.Visible {
			out = append(out, col.Key.Format(r, now))
		}
	}
	return out
}
