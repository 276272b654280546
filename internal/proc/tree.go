package proc

import "sort"

// Node is a process in a built forest. A node owns its children; parents
// are found by ID through the Forest, never through a back-pointer.
type Node struct {
	Record   Record
	Children []*Node

	// Expanded is UI state merged in after building; BuildForest leaves it false.
	Expanded bool
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// Forest is the parent/child hierarchy of one snapshot.
type Forest struct {
	// Roots are ordered by ascending PID, as are the children of every node.
	Roots []*Node

	index  map[PID]*Node
	parent map[PID]PID
}

// BuildForest assembles records into a forest. Every distinct PID appears
// exactly once; when the input repeats a PID the first record wins.
func BuildForest(records []Record) *Forest {
	f := &Forest{
		index:  make(map[PID]*Node, len(records)),
		parent: make(map[PID]PID, len(records)),
	}

	nodes := make([]*Node, 0, len(records))
	for _, r := range records {
		if _, dup := f.index[r.PID]; dup {
			continue
		}
		n := &Node{Record: r}
		f.index[r.PID] = n
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Record.PID < nodes[j].Record.PID
	})

	// top maps an attached node toward the root of its partial tree.
	top := make(map[PID]PID, len(nodes))
	find := func(x PID) PID {
		root := x
		for {
			next, ok := top[root]
			if !ok {
				break
			}
			root = next
		}
		for x != root {
			next := top[x]
			top[x] = root
			x = next
		}
		return root
	}

	// Iterating in PID order keeps both Roots and every Children slice sorted.
	for _, n := range nodes {
		id := n.Record.PID
		pid, hasParent := n.Record.ParentID()
		parent, present := f.index[pid]
		if !hasParent || !present || pid == id || find(pid) == id {
			f.Roots = append(f.Roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		f.parent[id] = pid
		top[id] = find(pid)
	}

	return f
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.index)
}

// Lookup returns the node for id.
func (f *Forest) Lookup(id PID) (*Node, bool) {
	if f == nil {
		return nil, false
	}
	n, ok := f.index[id]
	return n, ok
}

// Parent returns the PID the node was attached under. Roots have no parent,
// even when their record names one.
func (f *Forest) Parent(id PID) (PID, bool) {
	if f == nil {
		return 0, false
	}
	p, ok := f.parent[id]
	return p, ok
}

// Ancestors returns the attached ancestors of id, nearest first.
func (f *Forest) Ancestors(id PID) []PID {
	var out []PID
	for {
		p, ok := f.Parent(id)
		if !ok {
			return out
		}
		out = append(out, p)
		id = p
	}
}

// Walk visits the forest in pre-order. When fn returns false the children of
// that node are skipped.
func (f *Forest) Walk(fn func(n *Node, depth int) bool) {
	if f == nil {
		return
	}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range f.Roots {
		visit(r, 0)
	}
}

// Records returns every record in the forest in pre-order.
func (f *Forest) Records() []Record {
	out := make([]Record, 0, f.Len())
	f.Walk(func(n *Node, _ int) bool {
		out = append(out, n.Record)
		return true
	})
	return out
}
