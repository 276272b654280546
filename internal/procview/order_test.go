package procview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/proc"
)

func TestComputeRows_MissingParentPromotedToRoot(t *testing.T) {
	v := New(Options{Tree: true})
	v.Update([]proc.Record{
		rec(1, proc.NoParent, "init"),
		rec(2, 1, "a"),
		rec(3, 1, "b"),
		rec(4, 99, "orphan"),
	})

	rows := v.Rows()
	assert.Equal(t, []proc.PID{1, 2, 3, 4}, pids(rows))
	depths := []int{rows[0].Depth, rows[1].Depth, rows[2].Depth, rows[3].Depth}
	assert.Equal(t, []int{0, 1, 1, 0}, depths)
}

func TestComputeRows_FlatFilter(t *testing.T) {
	v := New(Options{})
	v.Update([]proc.Record{
		withCPU(rec(10, proc.NoParent, "chrome"), 5),
		withCPU(rec(11, proc.NoParent, "chromedriver"), 20),
		withCPU(rec(12, proc.NoParent, "bash"), 50),
	})
	v.SetFilter("chrome")

	assert.Equal(t, []proc.PID{11, 10}, pids(v.Rows()), "cpu descending")

	v.SetSort(SortSpec{Key: AttrName, Ascending: true})
	assert.Equal(t, []proc.PID{10, 11}, pids(v.Rows()), "name ascending")
}

func TestComputeRows_FilterMatchesStateAndUser(t *testing.T) {
	a := rec(1, proc.NoParent, "postgres")
	a.Metrics.User = "Postgres"
	b := rec(2, proc.NoParent, "vim")
	b.Metrics.State = "zombie"
	c := rec(3, proc.NoParent, "top")
	c.Command = "/usr/bin/postgres-helper"

	v := New(Options{})
	v.Update([]proc.Record{a, b, c})

	v.SetFilter("POSTGRES")
	assert.Equal(t, []proc.PID{1}, pids(v.Rows()), "command is not searched")

	v.SetFilter("  zomb ")
	assert.Equal(t, []proc.PID{2}, pids(v.Rows()))
	assert.Equal(t, "zomb", v.Filter().Query())
}

func TestComputeRows_SortStability(t *testing.T) {
	records := []proc.Record{
		withCPU(rec(30, proc.NoParent, "c"), 1),
		withCPU(rec(10, proc.NoParent, "a"), 1),
		withCPU(rec(5, proc.NoParent, "z"), 2),
		withCPU(rec(20, proc.NoParent, "b"), 1),
	}
	f := proc.BuildForest(records)

	desc := ComputeRows(f, SortSpec{Key: AttrCPU}, Filter{}, false)
	assert.Equal(t, []proc.PID{5, 10, 20, 30}, pids(desc))

	asc := ComputeRows(f, SortSpec{Key: AttrCPU, Ascending: true}, Filter{}, false)
	assert.Equal(t, []proc.PID{10, 20, 30, 5}, pids(asc), "ties keep ascending PID in both directions")
}

func TestComputeRows_TreeSortsWithinSiblings(t *testing.T) {
	v := New(Options{Tree: true})
	v.Update([]proc.Record{
		withCPU(rec(1, proc.NoParent, "init"), 0),
		withCPU(rec(2, 1, "a"), 1),
		withCPU(rec(3, 1, "b"), 5),
		withCPU(rec(4, 1, "c"), 3),
		withCPU(rec(5, 2, "d"), 90),
		withCPU(rec(6, proc.NoParent, "kthreadd"), 50),
	})

	// Hierarchy wins over global CPU order.
	assert.Equal(t, []proc.PID{6, 1, 3, 4, 2, 5}, pids(v.Rows()))
}

func TestComputeRows_TreeGuides(t *testing.T) {
	v := New(Options{Tree: true})
	v.Update(chain())

	rows := v.Rows()
	require.Equal(t, []proc.PID{1, 2, 3, 4}, pids(rows))

	assert.True(t, rows[0].Last)
	assert.Empty(t, rows[0].Open)

	assert.False(t, rows[1].Last)
	assert.Equal(t, []bool{false}, rows[1].Open)

	assert.True(t, rows[2].Last)
	assert.Equal(t, []bool{false, true}, rows[2].Open)

	assert.True(t, rows[3].Last)
	assert.Equal(t, []bool{false}, rows[3].Open)
}

func TestComputeRows_TreeFilterRevealsWithoutChangingState(t *testing.T) {
	v := New(Options{Tree: true})
	v.Update(chain())
	require.True(t, v.SetExpanded(2, false))
	require.Equal(t, []proc.PID{1, 2, 4}, pids(v.Rows()))

	v.SetFilter("chrome")
	rows := v.Rows()
	assert.Equal(t, []proc.PID{1, 2, 3}, pids(rows))
	assert.True(t, rows[1].Expanded)
	assert.True(t, rows[1].HasChildren)
	assert.False(t, v.IsExpanded(2), "stored expansion is untouched")

	v.SetFilter("")
	assert.Equal(t, []proc.PID{1, 2, 4}, pids(v.Rows()))
}

func TestComputeRows_TreeFilterHonorsCollapsed(t *testing.T) {
	v := New(Options{Tree: true, FilterHonorsCollapsed: true})
	v.Update(chain())
	require.True(t, v.SetExpanded(2, false))

	v.SetFilter("chrome")
	rows := v.Rows()
	require.Equal(t, []proc.PID{1, 2}, pids(rows))
	assert.True(t, rows[1].HasChildren, "match stays reachable")
	assert.False(t, rows[1].Expanded)

	require.True(t, v.SetExpanded(2, true))
	assert.Equal(t, []proc.PID{1, 2, 3}, pids(v.Rows()))
}

func TestComputeRows_TreeFilterDropsNonMatchingChildren(t *testing.T) {
	v := New(Options{Tree: true})
	v.Update(chain())

	v.SetFilter("shell")
	rows := v.Rows()
	assert.Equal(t, []proc.PID{1, 2}, pids(rows))
	assert.False(t, rows[1].HasChildren)
}

func TestComputeRows_Empty(t *testing.T) {
	assert.Nil(t, ComputeRows(nil, DefaultSort, Filter{}, true))
	assert.Nil(t, ComputeRows(proc.BuildForest(nil), DefaultSort, Filter{}, false))
}

func TestFilter_Zero(t *testing.T) {
	var f Filter
	assert.False(t, f.Active())
	assert.True(t, f.Match(rec(1, proc.NoParent, "anything")))
	assert.False(t, NewFilter("   ").Active())
}
