package procview

import (
	"time"

	"github.com/rileyhilliard/rtop/internal/proc"
)

func rec(pid, ppid proc.PID, name string) proc.Record {
	return proc.Record{PID: pid, PPID: ppid, Name: name}
}

func withCPU(r proc.Record, cpu float64) proc.Record {
	r.Metrics.CPUPercent = cpu
	return r
}

func withStart(r proc.Record, t time.Time) proc.Record {
	r.Metrics.StartTime = t
	return r
}

func pids(rows []Row) []proc.PID {
	out := make([]proc.PID, len(rows))
	for i, r := range rows {
		out[i] = r.PID
	}
	return out
}

func selected(v *View) proc.PID {
	id, ok := v.Selected()
	if !ok {
		return -1
	}
	return id
}

// chain returns 1 -> 2 -> 3 with 4 as a second child of 1.
func chain() []proc.Record {
	return []proc.Record{
		rec(1, proc.NoParent, "init"),
		rec(2, 1, "shell"),
		rec(3, 2, "chrome"),
		rec(4, 1, "bash"),
	}
}
