package proc

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// SystemStats are machine-wide figures read alongside a snapshot.
type SystemStats struct {
	CPUPercent float64 // all cores combined, 0-100
	MemTotal   uint64
	MemUsed    uint64
}

// Known reports whether the stats were read at all.
func (s SystemStats) Known() bool {
	return s.MemTotal > 0
}

// MemPercent returns used memory as a percentage of the total.
func (s SystemStats) MemPercent() float64 {
	if s.MemTotal == 0 {
		return 0
	}
	return float64(s.MemUsed) / float64(s.MemTotal) * 100
}

// SystemReader is implemented by sources that can also report machine-wide
// usage.
type SystemReader interface {
	SystemStats(ctx context.Context) (SystemStats, error)
}

// SystemStats reads overall CPU and memory usage. CPU is measured since the
// previous call, so the first reading covers the time since startup.
func (s *SystemSource) SystemStats(ctx context.Context) (SystemStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return SystemStats{}, errors.WrapWithCode(err, errors.ErrSnapshot,
			"Could not read memory usage",
			"The header shows per-process totals instead")
	}
	st := SystemStats{MemTotal: vm.Total, MemUsed: vm.Used}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		st.CPUPercent = pct[0]
	}
	return st, nil
}
