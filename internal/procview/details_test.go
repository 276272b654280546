package procview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/proc"
)

func TestDetailsCache_OncePerIDPerTick(t *testing.T) {
	f := proc.BuildForest(chain())
	var c DetailsCache

	_, ok := c.Get(f, 2, 1)
	require.True(t, ok)
	_, _ = c.Get(f, 2, 1)
	assert.Equal(t, 1, c.Computes())

	_, _ = c.Get(f, 2, 2)
	assert.Equal(t, 2, c.Computes(), "new tick")

	_, _ = c.Get(f, 3, 2)
	assert.Equal(t, 3, c.Computes(), "new selection")

	_, ok = c.Get(f, 99, 2)
	assert.False(t, ok)
	_, ok = c.Get(f, 99, 2)
	assert.False(t, ok)
	assert.Equal(t, 4, c.Computes(), "misses are cached too")

	c.Reset()
	_, _ = c.Get(f, 99, 2)
	assert.Equal(t, 5, c.Computes())
}

func TestDetailsCache_Contents(t *testing.T) {
	records := []proc.Record{
		withCPU(rec(1, proc.NoParent, "init"), 1),
		withCPU(rec(2, 1, "shell"), 2),
		withCPU(rec(3, 2, "chrome"), 4),
		withCPU(rec(4, 2, "vim"), 8),
		withCPU(rec(5, 4, "gopls"), 16),
	}
	records[2].Metrics.MemoryBytes = 100
	records[4].Metrics.MemoryBytes = 50
	f := proc.BuildForest(records)

	var c DetailsCache
	d, ok := c.Get(f, 2, 1)
	require.True(t, ok)
	assert.Equal(t, "shell", d.Record.Name)
	assert.Equal(t, "init", d.ParentName)
	assert.Equal(t, 2, d.Children)
	assert.Equal(t, 3, d.Descendants)
	assert.InDelta(t, 30.0, d.TreeCPU, 0.001)
	assert.Equal(t, uint64(150), d.TreeMemory)

	root, ok := c.Get(f, 1, 1)
	require.True(t, ok)
	assert.Empty(t, root.ParentName)
	assert.Equal(t, 4, root.Descendants)
}

func TestView_DetailsFollowSelectionAndTick(t *testing.T) {
	v := New(Options{Tree: true})
	_, ok := v.Details()
	assert.False(t, ok, "nothing selected")

	v.Update(chain())
	d, ok := v.Details()
	require.True(t, ok)
	assert.Equal(t, proc.PID(1), d.Record.PID)
	_, _ = v.Details()
	assert.Equal(t, 1, v.DetailsComputes())

	require.True(t, v.Select(3))
	d, _ = v.Details()
	assert.Equal(t, "chrome", d.Record.Name)
	assert.Equal(t, 2, v.DetailsComputes())

	v.Update(chain())
	_, _ = v.Details()
	assert.Equal(t, 3, v.DetailsComputes())
}
