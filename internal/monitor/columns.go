package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/rtop/internal/util"
)

// renderColumnEditor lists every column with its visibility and width. The
// cursor row is highlighted; changes apply to the table immediately.
func (m Model) renderColumnEditor() string {
	all := m.view.Columns().All()
	lines := make([]string, 0, len(all)+1)
	lines = append(lines, ColumnHeaderStyle.Render(m.fitLine("  SHOW  COLUMN    WIDTH")))

	for i, col := range all {
		mark := "[ ]"
		if col.Visible {
			mark = "[x]"
		}
		cursor := " "
		if i == m.columnCursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s   %s %5d", cursor, mark, util.Fit(col.Key.Title(), 9, false), col.Width)
		if i == m.columnCursor {
			lines = append(lines, SelectedRowStyle.Render(m.fitLine(line)))
			continue
		}
		lines = append(lines, RowStyle.Render(m.fitLine(line)))
	}

	for len(lines) < m.tableHeight()+1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
