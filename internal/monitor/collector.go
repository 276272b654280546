package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/proc"
)

// slowSnapshot is how long a snapshot may take before it is logged.
const slowSnapshot = 500 * time.Millisecond

// Result is the outcome of one snapshot attempt.
type Result struct {
	Records []proc.Record
	System  proc.SystemStats // zero unless the source reports it
	Err     error
	Took    time.Duration
	At      time.Time
}

// Collector takes snapshots on a fixed interval in its own goroutine and
// hands them to a single consumer. Only the newest unconsumed result is
// kept, so a slow consumer sees fresh data rather than a backlog.
type Collector struct {
	source   proc.Source
	interval time.Duration
	log      logger.Logger

	results chan Result
	refresh chan struct{}

	mu      sync.Mutex
	running bool
}

// NewCollector creates a collector for source. A nil logger discards logs.
func NewCollector(source proc.Source, interval time.Duration, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{
		source:   source,
		interval: interval,
		log:      logger.With(log, "collector"),
		results:  make(chan Result, 1),
		refresh:  make(chan struct{}, 1),
	}
}

// Interval returns the refresh interval.
func (c *Collector) Interval() time.Duration {
	return c.interval
}

// Results returns the channel snapshots are delivered on. It is closed when
// Run returns.
func (c *Collector) Results() <-chan Result {
	return c.results
}

// Refresh asks for a snapshot now instead of at the next interval. It never
// blocks; requests made while one is pending are merged.
func (c *Collector) Refresh() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Run takes a snapshot immediately and then once per interval until ctx is
// done. It must be called at most once.
func (c *Collector) Run(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	defer close(c.results)

	c.log.Info("collector started, interval %s", c.interval)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("collector stopped")
			return
		case <-timer.C:
		case <-c.refresh:
		}

		res := c.Collect(ctx)
		if ctx.Err() != nil {
			return
		}
		c.publish(res)
		timer.Reset(c.interval)
	}
}

// Collect takes one snapshot.
func (c *Collector) Collect(ctx context.Context) Result {
	start := time.Now()
	records, err := c.source.Snapshot(ctx)
	res := Result{Records: records, Took: time.Since(start), At: start}

	if err != nil {
		if !errors.IsCode(err, errors.ErrSnapshot) {
			err = errors.WrapWithCode(err, errors.ErrSnapshot,
				"Could not read the process table",
				"The previous view is kept; rtop retries on the next refresh")
		}
		res.Records = nil
		res.Err = err
		c.log.Warn("snapshot failed: %s", errors.Summary(err))
		return res
	}
	if sr, ok := c.source.(proc.SystemReader); ok {
		if st, err := sr.SystemStats(ctx); err == nil {
			res.System = st
		} else {
			c.log.Debug("system stats unavailable: %s", errors.Summary(err))
		}
	}
	if res.Took > slowSnapshot {
		c.log.Debug("slow snapshot: %d processes in %s", len(records), res.Took)
	}
	return res
}

// publish replaces any unconsumed result with res.
func (c *Collector) publish(res Result) {
	select {
	case c.results <- res:
		return
	default:
	}
	select {
	case <-c.results:
	default:
	}
	c.results <- res
}
