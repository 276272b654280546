package monitor

import (
	"sync"
	"time"

	"github.com/rileyhilliard/rtop/internal/proc"
)

// DefaultHistorySize is the default number of data points to retain per metric.
const DefaultHistorySize = 60

// History keeps recent samples of every live process in ring buffers for
// the sparklines in the details panel. Processes that leave a snapshot are
// dropped on the next Push, and a PID that reappears with a different start
// time starts a new history.
type History struct {
	mu    sync.RWMutex
	size  int
	procs map[proc.PID]*procHistory
}

// procHistory holds the ring buffers for a single process.
type procHistory struct {
	start time.Time
	cpu   *ringBuffer
	mem   *ringBuffer
	read  *ringBuffer // cumulative bytes
	write *ringBuffer // cumulative bytes
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a new history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		procs: make(map[proc.PID]*procHistory),
	}
}

// Push adds one sample per record and forgets processes not in records.
func (h *History) Push(records []proc.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[proc.PID]struct{}, len(records))
	for _, r := range records {
		seen[r.PID] = struct{}{}
		hist := h.getOrCreate(r)
		hist.cpu.push(r.Metrics.CPUPercent)
		hist.mem.push(float64(r.Metrics.MemoryBytes))
		hist.read.push(float64(r.Metrics.ReadBytes))
		hist.write.push(float64(r.Metrics.WriteBytes))
	}
	for pid := range h.procs {
		if _, ok := seen[pid]; !ok {
			delete(h.procs, pid)
		}
	}
}

// CPU returns the last count CPU percentage values for pid, oldest first.
// Returns fewer values if not enough history is available.
func (h *History) CPU(pid proc.PID, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.procs[pid]
	if !ok {
		return nil
	}
	return hist.cpu.getLast(count)
}

// Memory returns the last count resident memory values for pid, oldest first.
func (h *History) Memory(pid proc.PID, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.procs[pid]
	if !ok {
		return nil
	}
	return hist.mem.getLast(count)
}

// IORate returns read and write throughput for pid in bytes per second,
// from the last two samples taken intervalSec apart.
func (h *History) IORate(pid proc.PID, intervalSec float64) (readPerSec, writePerSec float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.procs[pid]
	if !ok || intervalSec <= 0 {
		return 0, 0
	}
	return rate(hist.read.getLast(2), intervalSec), rate(hist.write.getLast(2), intervalSec)
}

// rate converts two cumulative samples into a per-second delta. Counter
// resets yield zero.
func rate(samples []float64, intervalSec float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	delta := samples[1] - samples[0]
	if delta < 0 {
		return 0
	}
	return delta / intervalSec
}

// Count returns the number of samples stored for pid.
func (h *History) Count(pid proc.PID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.procs[pid]
	if !ok {
		return 0
	}
	return hist.cpu.count
}

// Len returns the number of processes tracked.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.procs)
}

// getOrCreate returns the history for r, replacing it if the PID now
// belongs to a different process. Must be called with h.mu held.
func (h *History) getOrCreate(r proc.Record) *procHistory {
	hist, ok := h.procs[r.PID]
	if ok && (hist.start.IsZero() || r.Metrics.StartTime.IsZero() || hist.start.Equal(r.Metrics.StartTime)) {
		return hist
	}
	hist = &procHistory{
		start: r.Metrics.StartTime,
		cpu:   newRingBuffer(h.size),
		mem:   newRingBuffer(h.size),
		read:  newRingBuffer(h.size),
		write: newRingBuffer(h.size),
	}
	h.procs[r.PID] = hist
	return hist
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points to the next write position, so the most recent value is at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		idx := (start + i) % r.size
		result[i] = r.data[idx]
	}

	return result
}
