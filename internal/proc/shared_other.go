//go:build !linux

package proc

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// Shared memory is only exposed by gopsutil on Linux.
func sharedBytes(context.Context, *process.Process) uint64 {
	return 0
}
