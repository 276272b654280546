package procview

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/rtop/internal/proc"
)

// Attr names a displayable and sortable process attribute.
type Attr string

const (
	AttrPID      Attr = "pid"
	AttrPPID     Attr = "ppid"
	AttrUser     Attr = "user"
	AttrPriority Attr = "nice"
	AttrState    Attr = "state"
	AttrThreads  Attr = "threads"
	AttrCPU      Attr = "cpu"
	AttrMemory   Attr = "mem"
	AttrVirtual  Attr = "virt"
	AttrShared   Attr = "shr"
	AttrRead     Attr = "read"
	AttrWrite    Attr = "write"
	AttrReadOps  Attr = "rops"
	AttrWriteOps Attr = "wops"
	AttrCPUTime  Attr = "time"
	AttrStart    Attr = "start"
	AttrName     Attr = "name"
	AttrCommand  Attr = "command"
)

// attrSpec describes how an attribute is titled, formatted, and compared.
type attrSpec struct {
	title   string
	width   int
	visible bool // in the default layout
	right   bool // right-aligned (numeric)
	compare func(a, b proc.Record) int
	format  func(r proc.Record, now time.Time) string
}

// attrOrder is the default column order and the sort-cycling order.
var attrOrder = []Attr{
	AttrPID, AttrUser, AttrPriority, AttrVirtual, AttrMemory, AttrShared,
	AttrState, AttrCPU, AttrCPUTime, AttrName,
	AttrPPID, AttrThreads, AttrRead, AttrWrite, AttrReadOps, AttrWriteOps,
	AttrStart, AttrCommand,
}

var attrs = map[Attr]attrSpec{
	AttrPID: {
		title: "PID", width: 7, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.PID, b.PID) },
		format:  func(r proc.Record, _ time.Time) string { return fmt.Sprintf("%d", r.PID) },
	},
	AttrPPID: {
		title: "PPID", width: 7, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.PPID, b.PPID) },
		format: func(r proc.Record, _ time.Time) string {
			if r.PPID < 0 {
				return "-"
			}
			return fmt.Sprintf("%d", r.PPID)
		},
	},
	AttrUser: {
		title: "USER", width: 9, visible: true,
		compare: func(a, b proc.Record) int { return compareFold(a.Metrics.User, b.Metrics.User) },
		format:  func(r proc.Record, _ time.Time) string { return r.Metrics.User },
	},
	AttrPriority: {
		title: "NI", width: 3, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.Priority, b.Metrics.Priority) },
		format:  func(r proc.Record, _ time.Time) string { return fmt.Sprintf("%d", r.Metrics.Priority) },
	},
	AttrState: {
		title: "S", width: 2, visible: true,
		compare: func(a, b proc.Record) int { return compareFold(a.Metrics.State, b.Metrics.State) },
		format:  func(r proc.Record, _ time.Time) string { return stateLetter(r.Metrics.State) },
	},
	AttrThreads: {
		title: "THR", width: 4, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.Threads, b.Metrics.Threads) },
		format:  func(r proc.Record, _ time.Time) string { return fmt.Sprintf("%d", r.Metrics.Threads) },
	},
	AttrCPU: {
		title: "CPU%", width: 5, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.CPUPercent, b.Metrics.CPUPercent) },
		format:  func(r proc.Record, _ time.Time) string { return fmt.Sprintf("%.1f", r.Metrics.CPUPercent) },
	},
	AttrMemory: {
		title: "RES", width: 8, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.MemoryBytes, b.Metrics.MemoryBytes) },
		format:  func(r proc.Record, _ time.Time) string { return formatBytes(r.Metrics.MemoryBytes) },
	},
	AttrVirtual: {
		title: "VIRT", width: 8, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.VirtualBytes, b.Metrics.VirtualBytes) },
		format:  func(r proc.Record, _ time.Time) string { return formatBytes(r.Metrics.VirtualBytes) },
	},
	AttrShared: {
		title: "SHR", width: 8, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.SharedBytes, b.Metrics.SharedBytes) },
		format:  func(r proc.Record, _ time.Time) string { return formatBytes(r.Metrics.SharedBytes) },
	},
	AttrRead: {
		title: "IO_R", width: 8, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.ReadBytes, b.Metrics.ReadBytes) },
		format:  func(r proc.Record, _ time.Time) string { return formatBytes(r.Metrics.ReadBytes) },
	},
	AttrWrite: {
		title: "IO_W", width: 8, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.WriteBytes, b.Metrics.WriteBytes) },
		format:  func(r proc.Record, _ time.Time) string { return formatBytes(r.Metrics.WriteBytes) },
	},
	AttrReadOps: {
		title: "RD_OPS", width: 7, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.ReadOps, b.Metrics.ReadOps) },
		format:  func(r proc.Record, _ time.Time) string { return humanize.Comma(int64(r.Metrics.ReadOps)) },
	},
	AttrWriteOps: {
		title: "WR_OPS", width: 7, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.WriteOps, b.Metrics.WriteOps) },
		format:  func(r proc.Record, _ time.Time) string { return humanize.Comma(int64(r.Metrics.WriteOps)) },
	},
	AttrCPUTime: {
		title: "TIME+", width: 9, visible: true, right: true,
		compare: func(a, b proc.Record) int { return cmp.Compare(a.Metrics.CPUTime, b.Metrics.CPUTime) },
		format:  func(r proc.Record, _ time.Time) string { return formatCPUTime(r.Metrics.CPUTime) },
	},
	AttrStart: {
		title: "START", width: 5,
		compare: func(a, b proc.Record) int { return a.Metrics.StartTime.Compare(b.Metrics.StartTime) },
		format:  func(r proc.Record, now time.Time) string { return formatStart(r.Metrics.StartTime, now) },
	},
	AttrName: {
		title: "NAME", width: 24, visible: true,
		compare: func(a, b proc.Record) int { return compareFold(a.Name, b.Name) },
		format:  func(r proc.Record, _ time.Time) string { return r.Name },
	},
	AttrCommand: {
		title: "COMMAND", width: 40,
		compare: func(a, b proc.Record) int { return compareFold(a.Command, b.Command) },
		format: func(r proc.Record, _ time.Time) string {
			if r.Command == "" {
				return r.Name
			}
			return r.Command
		},
	},
}

// Attrs returns every known attribute in default order.
func Attrs() []Attr {
	out := make([]Attr, len(attrOrder))
	copy(out, attrOrder)
	return out
}

// Known reports whether a is a recognized attribute.
func (a Attr) Known() bool {
	_, ok := attrs[a]
	return ok
}

// Title returns the column header for a.
func (a Attr) Title() string {
	if s, ok := attrs[a]; ok {
		return s.title
	}
	return strings.ToUpper(string(a))
}

// RightAligned reports whether a is rendered right-aligned.
func (a Attr) RightAligned() bool {
	return attrs[a].right
}

// Format renders the attribute of r as a cell value.
func (a Attr) Format(r proc.Record, now time.Time) string {
	s, ok := attrs[a]
	if !ok {
		return ""
	}
	return s.format(r, now)
}

// Compare orders a and b by the attribute, ascending.
func (a Attr) Compare(x, y proc.Record) int {
	s, ok := attrs[a]
	if !ok {
		return 0
	}
	return s.compare(x, y)
}

func compareFold(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func formatBytes(n uint64) string {
	if n == 0 {
		return "0"
	}
	return strings.ReplaceAll(humanize.IBytes(n), " ", "")
}

// formatCPUTime renders like top's TIME+: m:ss.cc, or h:mm:ss past an hour.
func formatCPUTime(d time.Duration) string {
	if d >= time.Hour {
		h := int(d / time.Hour)
		m := int(d/time.Minute) % 60
		s := int(d/time.Second) % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	m := int(d / time.Minute)
	s := int(d/time.Second) % 60
	cs := int(d/(10*time.Millisecond)) % 100
	return fmt.Sprintf("%d:%02d.%02d", m, s, cs)
}

func formatStart(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if now.Sub(t) < 24*time.Hour {
		return t.Format("15:04")
	}
	return t.Format("Jan02")
}

// stateLetter maps gopsutil status names to the single-letter ps codes.
func stateLetter(state string) string {
	switch strings.ToLower(state) {
	case "running":
		return "R"
	case "sleep", "sleeping":
		return "S"
	case "stop", "stopped":
		return "T"
	case "idle":
		return "I"
	case "zombie":
		return "Z"
	case "wait", "waiting":
		return "W"
	case "lock", "locked":
		return "L"
	case "disk-sleep", "blocked":
		return "D"
	case "":
		return "?"
	}
	if len(state) == 1 {
		return strings.ToUpper(state)
	}
	return strings.ToUpper(state[:1])
}
