package monitor

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/rtop/internal/procview"
)

// sparklineWidth is the width of the history graphs in the details panel.
const sparklineWidth = 30

// renderDetailsPanel renders the bordered details panel around the
// scrollable viewport.
func (m Model) renderDetailsPanel() string {
	width := max(m.width, 20)
	d := m.frame.Details
	if d == nil {
		lines := []string{
			SectionHeader("Details", "", width),
			SectionContentLine(LabelStyle.Render("No process selected"), width),
		}
		for len(lines) < detailsHeight-1 {
			lines = append(lines, SectionContentLine("", width))
		}
		lines = append(lines, SectionFooter(width))
		return strings.Join(lines, "\n")
	}

	title := fmt.Sprintf("%s (%d)", d.Record.Name, d.Record.PID)
	value := fmt.Sprintf("CPU %.1f%%", d.Record.Metrics.CPUPercent)

	lines := []string{SectionHeader(title, value, width)}
	content := strings.Split(m.details.View(), "\n")
	for i := 0; i < detailsHeight-2; i++ {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		lines = append(lines, SectionContentLine(line, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderDetailsContent builds the text scrolled by the details viewport.
func (m Model) renderDetailsContent() string {
	d := m.frame.Details
	if d == nil {
		return ""
	}
	r := d.Record
	mt := r.Metrics
	now := m.now()

	label := func(s string) string { return LabelStyle.Render(s) }
	value := func(s string) string { return ValueStyle.Render(s) }

	var lines []string
	command := r.Command
	if command == "" {
		command = r.Name
	}
	lines = append(lines, label("Command  ")+value(command))

	lines = append(lines, fmt.Sprintf("%s%s  %s%s  %s%d  %s%d",
		label("User  "), value(orDash(mt.User)),
		label("State  "), value(orDash(mt.State)),
		label("Nice  "), mt.Priority,
		label("Threads  "), mt.Threads))

	started := "-"
	if !mt.StartTime.IsZero() {
		started = humanize.RelTime(mt.StartTime, now, "ago", "from now")
	}
	lines = append(lines, fmt.Sprintf("%s%s  %s%s",
		label("Started  "), value(started),
		label("CPU time  "), value(procview.AttrCPUTime.Format(r, now))))

	lines = append(lines, fmt.Sprintf("%s%s  %s%s  %s%s",
		label("RES  "), value(humanize.IBytes(mt.MemoryBytes)),
		label("VIRT  "), value(humanize.IBytes(mt.VirtualBytes)),
		label("SHR  "), value(humanize.IBytes(mt.SharedBytes))))

	readRate, writeRate := m.history.IORate(r.PID, m.intervalSeconds())
	lines = append(lines, fmt.Sprintf("%s%s (%s/s, %s ops)  %s%s (%s/s, %s ops)",
		label("Read  "), value(humanize.IBytes(mt.ReadBytes)), humanize.IBytes(uint64(readRate)), humanize.Comma(int64(mt.ReadOps)),
		label("Write  "), value(humanize.IBytes(mt.WriteBytes)), humanize.IBytes(uint64(writeRate)), humanize.Comma(int64(mt.WriteOps))))

	parent := "none"
	if d.ParentName != "" {
		parent = fmt.Sprintf("%s (%d)", d.ParentName, r.PPID)
	}
	lines = append(lines, fmt.Sprintf("%s%s  %s%d  %s%d  %s%.1f%% / %s",
		label("Parent  "), value(parent),
		label("Children  "), d.Children,
		label("Descendants  "), d.Descendants,
		label("Subtree  "), d.TreeCPU, humanize.IBytes(d.TreeMemory)))

	cpu := m.history.CPU(r.PID, sparklineWidth)
	mem := m.history.Memory(r.PID, sparklineWidth)
	lines = append(lines, fmt.Sprintf("%s%s %s  %s%s",
		label("CPU  "), RenderColoredMiniSparkline(cpu, min(len(cpu), sparklineWidth)),
		ThinProgressBar(10, mt.CPUPercent),
		label("RES  "), RenderRangeSparkline(mem, min(len(mem), sparklineWidth))))

	return strings.Join(lines, "\n")
}

// intervalSeconds is the spacing of history samples.
func (m Model) intervalSeconds() float64 {
	if m.collector == nil {
		return 0
	}
	return m.collector.Interval().Seconds()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
