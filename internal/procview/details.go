package procview

import "github.com/rileyhilliard/rtop/internal/proc"

// Details is the expanded record shown in the details panel.
type Details struct {
	Record      proc.Record
	ParentName  string // empty for roots
	Children    int    // direct children
	Descendants int    // whole subtree, excluding the process itself
	TreeCPU     float64
	TreeMemory  uint64
}

type detailsEntry struct {
	pid     proc.PID
	tick    uint64
	details Details
	found   bool
}

// DetailsCache memoizes the details of the selected process for one tick.
// A lookup for a different process or a newer tick recomputes and replaces
// the single cached entry.
type DetailsCache struct {
	entry    *detailsEntry
	computes int
}

// Get returns the details of id as of tick. found is false when the
// process is not in f.
func (c *DetailsCache) Get(f *proc.Forest, id proc.PID, tick uint64) (Details, bool) {
	if e := c.entry; e != nil && e.pid == id && e.tick == tick {
		return e.details, e.found
	}
	c.computes++
	d, ok := computeDetails(f, id)
	c.entry = &detailsEntry{pid: id, tick: tick, details: d, found: ok}
	return d, ok
}

// Computes returns how many times details were recomputed.
func (c *DetailsCache) Computes() int {
	return c.computes
}

// Reset drops the cached entry.
func (c *DetailsCache) Reset() {
	c.entry = nil
}

func computeDetails(f *proc.Forest, id proc.PID) (Details, bool) {
	n, ok := f.Lookup(id)
	if !ok {
		return Details{}, false
	}
	d := Details{
		Record:   n.Record,
		Children: len(n.Children),
	}
	if p, ok := f.Parent(id); ok {
		if pn, ok := f.Lookup(p); ok {
			d.ParentName = pn.Record.Name
		}
	}
	var sum func(n *proc.Node)
	sum = func(n *proc.Node) {
		d.TreeCPU += n.Record.Metrics.CPUPercent
		d.TreeMemory += n.Record.Metrics.MemoryBytes
		for _, c := range n.Children {
			d.Descendants++
			sum(c)
		}
	}
	sum(n)
	return d, true
}
