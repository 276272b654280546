//go:build linux

package proc

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

func sharedBytes(ctx context.Context, p *process.Process) uint64 {
	ex, err := p.MemoryInfoExWithContext(ctx)
	if err != nil || ex == nil {
		return 0
	}
	return ex.Shared
}
