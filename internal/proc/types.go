package proc

import (
	"context"
	"time"
)

// PID identifies a process within one snapshot. The OS may hand the same
// value to an unrelated process after the original exits; use SameProcess
// to compare identities across snapshots.
type PID int32

// NoParent marks a record whose parent could not be determined.
const NoParent PID = -1

// Metrics holds the per-process measurements of one snapshot.
type Metrics struct {
	CPUPercent   float64
	MemoryBytes  uint64 // resident set size
	VirtualBytes uint64
	SharedBytes  uint64
	ReadBytes    uint64
	WriteBytes   uint64
	ReadOps      uint64
	WriteOps     uint64
	Priority     int32 // nice value
	Threads      int32
	StartTime    time.Time
	CPUTime      time.Duration
	State        string
	User         string
}

// Record is one process as observed in a snapshot.
type Record struct {
	PID     PID
	PPID    PID // NoParent when unknown
	Name    string
	Command string
	Metrics Metrics
}

// ParentID returns the parent PID, if the record has one.
func (r Record) ParentID() (PID, bool) {
	if r.PPID < 0 {
		return 0, false
	}
	return r.PPID, true
}

// SameProcess reports whether r and o describe the same OS process. PIDs
// must match; start times must match when both are known.
func (r Record) SameProcess(o Record) bool {
	if r.PID != o.PID {
		return false
	}
	if r.Metrics.StartTime.IsZero() || o.Metrics.StartTime.IsZero() {
		return true
	}
	return r.Metrics.StartTime.Equal(o.Metrics.StartTime)
}

// Source produces snapshots. Implementations omit processes they cannot
// read instead of failing the whole call; an error means no snapshot could
// be produced at all.
type Source interface {
	Snapshot(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Record, error)

// Snapshot calls f.
func (f SourceFunc) Snapshot(ctx context.Context) ([]Record, error) {
	return f(ctx)
}

// StaticSource always returns a copy of the same records.
type StaticSource []Record

// Snapshot returns a copy of the records.
func (s StaticSource) Snapshot(context.Context) ([]Record, error) {
	out := make([]Record, len(s))
	copy(out, s)
	return out, nil
}
