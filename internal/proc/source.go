package proc

import (
	"context"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// handle keeps the gopsutil process object for a PID between ticks. CPU%
// is computed from the delta against the previous call on the same object,
// so handles must survive across snapshots. Attributes that never change
// for a process lifetime are read once.
type handle struct {
	proc    *process.Process
	created int64 // ms since epoch; detects PID reuse
	name    string
	user    string
	command string
}

// SystemSource reads the live process table through gopsutil.
// It is not safe for concurrent Snapshot calls; the collector serializes them.
type SystemSource struct {
	handles *cache.Cache[PID, *handle]
}

// NewSystemSource creates a source for the local machine.
func NewSystemSource() *SystemSource {
	return &SystemSource{
		handles: cache.New[PID, *handle](),
	}
}

// Snapshot lists all processes. Processes that exit mid-read or whose basic
// attributes are unreadable are omitted; optional metrics that fail to read
// are left at zero.
func (s *SystemSource) Snapshot(ctx context.Context) ([]Record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSnapshot,
			"Could not list processes",
			"Check that the process table is readable (e.g. /proc is mounted)")
	}

	seen := make(map[PID]struct{}, len(procs))
	records := make([]Record, 0, len(procs))
	for _, p := range procs {
		h, ok := s.handleFor(ctx, p)
		if !ok {
			continue
		}
		seen[PID(p.Pid)] = struct{}{}
		records = append(records, readRecord(ctx, h))
	}

	for _, pid := range s.handles.Keys() {
		if _, ok := seen[pid]; !ok {
			s.handles.Delete(pid)
		}
	}

	return records, nil
}

// Tracked returns the number of cached process handles.
func (s *SystemSource) Tracked() int {
	return s.handles.Len()
}

func (s *SystemSource) handleFor(ctx context.Context, p *process.Process) (*handle, bool) {
	created, err := p.CreateTimeWithContext(ctx)
	if err != nil {
		return nil, false
	}

	pid := PID(p.Pid)
	if h, ok := s.handles.Get(pid); ok && h.created == created {
		return h, true
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return nil, false
	}
	h := &handle{proc: p, created: created, name: name}
	h.user, _ = p.UsernameWithContext(ctx)
	h.command, _ = p.CmdlineWithContext(ctx)
	s.handles.Set(pid, h)
	return h, true
}

func readRecord(ctx context.Context, h *handle) Record {
	p := h.proc
	r := Record{
		PID:     PID(p.Pid),
		PPID:    NoParent,
		Name:    h.name,
		Command: h.command,
	}
	m := &r.Metrics
	m.User = h.user
	m.StartTime = time.UnixMilli(h.created)

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		r.PPID = PID(ppid)
	}
	if pct, err := p.PercentWithContext(ctx, 0); err == nil {
		m.CPUPercent = pct
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		m.MemoryBytes = mem.RSS
		m.VirtualBytes = mem.VMS
	}
	m.SharedBytes = sharedBytes(ctx, p)
	if io, err := p.IOCountersWithContext(ctx); err == nil && io != nil {
		m.ReadBytes = io.ReadBytes
		m.WriteBytes = io.WriteBytes
		m.ReadOps = io.ReadCount
		m.WriteOps = io.WriteCount
	}
	if nice, err := p.NiceWithContext(ctx); err == nil {
		m.Priority = nice
	}
	if n, err := p.NumThreadsWithContext(ctx); err == nil {
		m.Threads = n
	}
	if t, err := p.TimesWithContext(ctx); err == nil && t != nil {
		m.CPUTime = time.Duration((t.User + t.System) * float64(time.Second))
	}
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		m.State = st[0]
	}
	return r
}
