package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/rtop/internal/procview"
	"github.com/rileyhilliard/rtop/internal/util"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.mode == ModeColumns {
		b.WriteString(m.renderColumnEditor())
	} else {
		b.WriteString(m.renderTable())
	}

	if m.showDetails && m.mode != ModeColumns {
		b.WriteString("\n")
		b.WriteString(m.renderDetailsPanel())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// gaugeWidth is the width of the header usage bars.
const gaugeWidth = 10

// renderHeader renders the summary line. Machine-wide CPU and memory are
// drawn as gauges when the source reports them; otherwise the per-process
// sums stand in.
func (m Model) renderHeader() string {
	fr := m.frame
	tot := fr.Totals

	parts := []string{
		LabelStyle.Render(fmt.Sprintf("%d %s, %d running, %d threads",
			tot.Processes, util.Pluralize(tot.Processes, "process", "processes"), tot.Running, tot.Threads)),
	}
	if sys := tot.System; sys.Known() {
		parts = append(parts,
			gauge("CPU", sys.CPUPercent, fmt.Sprintf("%.1f%%", sys.CPUPercent)),
			gauge("MEM", sys.MemPercent(), humanize.IBytes(sys.MemUsed)+"/"+humanize.IBytes(sys.MemTotal)),
		)
	} else {
		parts = append(parts, LabelStyle.Render(fmt.Sprintf("CPU %.1f%%", tot.CPU)))
	}
	parts = append(parts,
		LabelStyle.Render("RES "+humanize.IBytes(tot.Memory)),
		LabelStyle.Render("sort "+sortLabel(fr.Sort)),
		LabelStyle.Render(modeLabel(fr.Tree)),
	)
	if fr.Filter != "" {
		parts = append(parts, LabelStyle.Render(fmt.Sprintf("filter %q (%d shown)", fr.Filter, fr.Total)))
	}
	parts = append(parts, LabelStyle.Render("updated "+m.updatedText()))

	sep := LabelStyle.Render(" | ")
	title := TitleStyle.Render("rtop")
	return m.fitLine(HeaderStyle.Render(title + sep + strings.Join(parts, sep)))
}

// gauge renders "LABEL ━━━─── value" with the bar colored by percent.
func gauge(label string, percent float64, value string) string {
	return LabelStyle.Render(label+" ") + ThinProgressBar(gaugeWidth, percent) + " " + MetricStyle(percent).Render(value)
}

func (m Model) updatedText() string {
	if m.lastUpdate.IsZero() {
		return "never"
	}
	switch secs := m.SecondsSinceUpdate(); secs {
	case 0:
		return "just now"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

func sortLabel(s procview.SortSpec) string {
	arrow := ArrowDown
	if s.Ascending {
		arrow = ArrowUp
	}
	return string(s.Key) + " " + arrow
}

func modeLabel(tree bool) string {
	if tree {
		return "tree"
	}
	return "flat"
}

// renderTable renders the column titles and the visible window of rows,
// padded to the table height so the footer stays at the bottom.
func (m Model) renderTable() string {
	fr := m.frame
	lines := make([]string, 0, m.tableHeight()+1)
	lines = append(lines, ColumnHeaderStyle.Render(m.fitLine(m.columnTitles())))

	if fr.Total == 0 {
		msg := "Waiting for the first snapshot..."
		if fr.Tick > 0 {
			msg = "No processes match"
		}
		lines = append(lines, LabelStyle.Render(msg))
	}
	for _, row := range fr.Rows {
		lines = append(lines, m.renderRow(row))
	}
	for len(lines) < m.tableHeight()+1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) columnTitles() string {
	fr := m.frame
	cells := make([]string, len(fr.Columns))
	for i, col := range fr.Columns {
		title := col.Key.Title()
		if col.Key == fr.Sort.Key {
			if fr.Sort.Ascending {
				title += ArrowUp
			} else {
				title += ArrowDown
			}
		}
		cells[i] = util.Fit(title, col.Width, col.Key.RightAligned())
	}
	return strings.Join(cells, " ")
}

// renderRow lays out one process row. In tree mode the name cell carries
// the branch guides and the expand marker.
func (m Model) renderRow(row procview.FrameRow) string {
	fr := m.frame
	cells := make([]string, len(fr.Columns))
	for i, col := range fr.Columns {
		value := row.Cells[i]
		if fr.Tree && col.Key == procview.AttrName {
			value = treePrefix(row.Row) + value
		}
		cells[i] = util.Fit(value, col.Width, col.Key.RightAligned())
	}

	line := m.fitLine(strings.Join(cells, " "))
	if row.Selected {
		return SelectedRowStyle.Render(line)
	}
	return RowStyle.Render(line)
}

// treePrefix builds the guide lines for a row: a pipe for every ancestor
// level that continues below, then the row's own branch and marker.
func treePrefix(r procview.Row) string {
	var b strings.Builder
	for d := 1; d < r.Depth; d++ {
		if d < len(r.Open) && r.Open[d] {
			b.WriteString(TreePipe)
		} else {
			b.WriteString(TreeSpace)
		}
	}
	if r.Depth > 0 {
		if r.Last {
			b.WriteString(TreeLast)
		} else {
			b.WriteString(TreeBranch)
		}
	}
	switch {
	case r.HasChildren && r.Expanded:
		b.WriteString(TreeExpanded)
	case r.HasChildren:
		b.WriteString(TreeCollapsed)
	}
	return b.String()
}

// renderStatusLine shows the filter prompt, a transient status message,
// or refresh statistics.
func (m Model) renderStatusLine() string {
	if m.mode == ModeFilter {
		return m.fitLine(m.filter.View())
	}
	if m.status != "" {
		style := StatusInfoStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		return style.Render(m.fitLine(m.status))
	}
	fr := m.frame
	line := fmt.Sprintf("%d/%d rows | tick %d", fr.Selected+1, fr.Total, fr.Tick)
	if m.lastTook > 0 {
		line += fmt.Sprintf(" | snapshot %dms", m.lastTook.Milliseconds())
	}
	return FooterStyle.Render(m.fitLine(line))
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	if m.mode == ModeColumns {
		return m.help.View(m.columnKeys)
	}
	return m.help.View(m.keys)
}

// fitLine truncates a line to the terminal width. Before the first
// WindowSizeMsg the width is unknown and lines are left alone.
func (m Model) fitLine(s string) string {
	if m.width <= 0 || lipgloss.Width(s) <= m.width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(s)
}
