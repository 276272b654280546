package procview

import "time"

// FrameRow is a row of the visible window with its projected cells.
type FrameRow struct {
	Row
	Cells    []string
	Selected bool
}

// Frame is an immutable snapshot of everything the renderer draws. It is
// built after state changes and never shares mutable slices with the View.
type Frame struct {
	Columns   []ColumnConfig
	Rows      []FrameRow // only the rows inside the window
	Total     int        // rows in the full visible order
	Scroll    int
	Selected  int // index into the full order, -1 when nothing is selected
	Sort      SortSpec
	Filter    string
	Tree      bool
	Totals    Totals
	Tick      uint64
	UpdatedAt time.Time
	Details   *Details // nil unless requested and the selection exists
}

// Frame projects the window of page rows around the selection.
func (v *View) Frame(page int, withDetails bool) Frame {
	page = max(page, 1)
	v.EnsureVisible(page)
	rows := v.state.Rows()
	start := v.state.Scroll()
	end := min(len(rows), start+page)
	sel := v.state.SelectedIndex()

	fr := Frame{
		Columns:   v.columns.Visible(),
		Total:     len(rows),
		Scroll:    start,
		Selected:  sel,
		Sort:      v.sort,
		Filter:    v.filter.Query(),
		Tree:      v.tree,
		Totals:    v.totals,
		Tick:      v.tick,
		UpdatedAt: v.updated,
	}
	if start < end {
		fr.Rows = make([]FrameRow, 0, end-start)
	}
	for i := start; i < end; i++ {
		r := rows[i]
		rec, _ := v.Record(r.PID)
		fr.Rows = append(fr.Rows, FrameRow{
			Row:      r,
			Cells:    v.columns.Project(rec),
			Selected: i == sel,
		})
	}
	if withDetails {
		if d, ok := v.Details(); ok {
			fr.Details = &d
		}
	}
	return fr
}
