package proc

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(pid, ppid PID, name string) Record {
	return Record{PID: pid, PPID: ppid, Name: name}
}

func preorder(f *Forest) []PID {
	var out []PID
	f.Walk(func(n *Node, _ int) bool {
		out = append(out, n.Record.PID)
		return true
	})
	return out
}

func rootIDs(f *Forest) []PID {
	var out []PID
	for _, r := range f.Roots {
		out = append(out, r.Record.PID)
	}
	return out
}

// countVisits walks the forest and counts how often each PID is reached.
func countVisits(f *Forest) map[PID]int {
	visits := make(map[PID]int)
	f.Walk(func(n *Node, _ int) bool {
		visits[n.Record.PID]++
		return true
	})
	return visits
}

func TestBuildForest_MissingParentBecomesRoot(t *testing.T) {
	f := BuildForest([]Record{
		rec(4, 99, "orphan"),
		rec(3, 1, "c2"),
		rec(1, NoParent, "init"),
		rec(2, 1, "c1"),
	})

	assert.Equal(t, []PID{1, 4}, rootIDs(f))
	assert.Equal(t, []PID{1, 2, 3, 4}, preorder(f))
	assert.Equal(t, 4, f.Len())

	_, ok := f.Parent(4)
	assert.False(t, ok, "promoted root has no attached parent")
	p, ok := f.Parent(3)
	require.True(t, ok)
	assert.Equal(t, PID(1), p)
}

func TestBuildForest_TwoNodeCycle(t *testing.T) {
	f := BuildForest([]Record{
		rec(10, 20, "a"),
		rec(20, 10, "b"),
	})

	visits := countVisits(f)
	assert.Equal(t, map[PID]int{10: 1, 20: 1}, visits)
	require.NotEmpty(t, f.Roots)
	assert.Len(t, f.Roots, 1)
	assert.Equal(t, 2, f.Roots[0].Size())
}

func TestBuildForest_LongCycleWithTail(t *testing.T) {
	// 1 -> 2 -> 3 -> 1 is a cycle; 4 hangs off 3; 5 hangs off 4.
	f := BuildForest([]Record{
		rec(1, 3, "a"),
		rec(2, 1, "b"),
		rec(3, 2, "c"),
		rec(4, 3, "d"),
		rec(5, 4, "e"),
	})

	visits := countVisits(f)
	assert.Len(t, visits, 5)
	for pid, n := range visits {
		assert.Equal(t, 1, n, "pid %d visited %d times", pid, n)
	}
	assert.Len(t, f.Roots, 1)
}

func TestBuildForest_SelfParent(t *testing.T) {
	f := BuildForest([]Record{rec(0, 0, "kernel_task"), rec(1, 0, "launchd")})

	assert.Equal(t, []PID{0}, rootIDs(f))
	assert.Equal(t, []PID{0, 1}, preorder(f))
}

func TestBuildForest_DuplicatePIDKeepsFirst(t *testing.T) {
	f := BuildForest([]Record{rec(1, NoParent, "first"), rec(1, NoParent, "second")})

	assert.Equal(t, 1, f.Len())
	n, ok := f.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "first", n.Record.Name)
}

func TestBuildForest_Empty(t *testing.T) {
	f := BuildForest(nil)
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Roots)
	assert.Empty(t, preorder(f))
}

func TestBuildForest_ChildrenSortedByPID(t *testing.T) {
	f := BuildForest([]Record{
		rec(1, NoParent, "root"),
		rec(9, 1, "c9"),
		rec(3, 1, "c3"),
		rec(5, 1, "c5"),
	})
	root, ok := f.Lookup(1)
	require.True(t, ok)

	var kids []PID
	for _, c := range root.Children {
		kids = append(kids, c.Record.PID)
	}
	assert.Equal(t, []PID{3, 5, 9}, kids)
}

func TestBuildForest_DeterministicAcrossInputOrder(t *testing.T) {
	records := []Record{
		rec(1, NoParent, "a"), rec(2, 1, "b"), rec(3, 2, "c"),
		rec(7, 8, "x"), rec(8, 7, "y"), rec(5, 42, "z"),
	}
	want := preorder(BuildForest(records))

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Record(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, preorder(BuildForest(shuffled)))
	}
}

func TestBuildForest_RandomSnapshotsReachEveryPIDOnce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := r.Intn(60)
		records := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			pid := PID(r.Intn(80))
			ppid := PID(r.Intn(90)) - 5 // includes NoParent-like negatives and missing parents
			records = append(records, rec(pid, ppid, "p"))
		}

		f := BuildForest(records)

		distinct := make(map[PID]bool)
		for _, rc := range records {
			distinct[rc.PID] = true
		}
		visits := countVisits(f)
		assert.Len(t, visits, len(distinct))
		for pid := range distinct {
			assert.Equal(t, 1, visits[pid], "iteration %d: pid %d", iter, pid)
		}

		total := 0
		for _, root := range f.Roots {
			total += root.Size()
		}
		assert.Equal(t, len(distinct), total)
		assert.Equal(t, len(distinct), f.Len())
	}
}

func TestForest_Ancestors(t *testing.T) {
	f := BuildForest([]Record{
		rec(1, NoParent, "init"),
		rec(2, 1, "sh"),
		rec(3, 2, "vim"),
	})

	assert.Equal(t, []PID{2, 1}, f.Ancestors(3))
	assert.Empty(t, f.Ancestors(1))
	assert.Empty(t, f.Ancestors(404))
}

func TestForest_WalkSkipsChildren(t *testing.T) {
	f := BuildForest([]Record{
		rec(1, NoParent, "a"), rec(2, 1, "b"), rec(3, 2, "c"), rec(4, NoParent, "d"),
	})

	var seen []PID
	var depths []int
	f.Walk(func(n *Node, depth int) bool {
		seen = append(seen, n.Record.PID)
		depths = append(depths, depth)
		return n.Record.PID != 2
	})
	assert.Equal(t, []PID{1, 2, 4}, seen)
	assert.Equal(t, []int{0, 1, 0}, depths)
}

func TestForest_NilSafe(t *testing.T) {
	var f *Forest
	assert.Equal(t, 0, f.Len())
	_, ok := f.Lookup(1)
	assert.False(t, ok)
	assert.NotPanics(t, func() { f.Walk(func(*Node, int) bool { return true }) })
}

func TestRecord_SameProcess(t *testing.T) {
	start := time.Unix(1700000000, 0)
	a := Record{PID: 5, Metrics: Metrics{StartTime: start}}

	assert.True(t, a.SameProcess(Record{PID: 5, Metrics: Metrics{StartTime: start}}))
	assert.True(t, a.SameProcess(Record{PID: 5}), "unknown start time matches")
	assert.False(t, a.SameProcess(Record{PID: 5, Metrics: Metrics{StartTime: start.Add(time.Second)}}))
	assert.False(t, a.SameProcess(Record{PID: 6, Metrics: Metrics{StartTime: start}}))
}

func TestRecord_ParentID(t *testing.T) {
	_, ok := rec(1, NoParent, "x").ParentID()
	assert.False(t, ok)

	p, ok := rec(2, 1, "y").ParentID()
	assert.True(t, ok)
	assert.Equal(t, PID(1), p)
}
