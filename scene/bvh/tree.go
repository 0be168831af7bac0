package bvh

import (
	"errors"

	"github.com/MillerLab-UCDavis/ARTRS/types"
)

var (
	ErrEmptyScene = errors.New("bvh: cannot build an index over zero volumes")
	ErrNotReady   = errors.New("bvh: index queried before being built")
)

// Nodes pack an AABB plus two multipurpose int32 fields:
//
//   - for inner nodes LData/RData are both > 0 and index the children
//   - for leaves LData is <= 0 and holds the negated first item index while
//     RData holds the item count
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Set leaf item range.
func (n *Node) SetItems(first, count uint32) {
	n.LData = -int32(first)
	n.RData = int32(count)
}

// Get leaf item range.
func (n *Node) Items() (first, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Report whether this node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}

// intersectBox runs a slab test against the node bounds. NaN products from
// a zero direction component compare false everywhere so such axes are
// skipped implicitly.
func (n *Node) intersectBox(origin, invDir types.Vec3, near, far float64) (float64, bool) {
	tEnter := near
	tExit := far

	for axis := 0; axis < 3; axis++ {
		t0 := (n.Min.Axis(axis) - origin.Axis(axis)) * invDir.Axis(axis)
		t1 := (n.Max.Axis(axis) - origin.Axis(axis)) * invDir.Axis(axis)
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	if tEnter > tExit {
		return 0, false
	}
	return tEnter, true
}

// A Tree is an immutable bounding volume hierarchy over the volumes it was
// built from. Queries are pure reads and safe for unsynchronized concurrent
// use.
type Tree struct {
	nodes []Node
	items []int32
}

// Number of nodes in the tree.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// QueryFunc is invoked once per candidate item, in ascending order of the
// entry distance of the enclosing leaf. It returns the far bound for the
// remainder of the traversal, typically the nearest confirmed hit so far;
// nodes entered beyond that bound are pruned.
type QueryFunc func(item int32, entry float64) (newFar float64)

// Query walks the tree front to back and reports every item whose bounding
// volume overlaps the ray interval [near, far]. Querying a tree that has not
// been produced by Build is a programming error and panics with ErrNotReady.
func (t *Tree) Query(origin, dir types.Vec3, near, far float64, fn QueryFunc) {
	if t == nil || len(t.nodes) == 0 {
		panic(ErrNotReady)
	}

	invDir := types.Vec3{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}

	type stackEntry struct {
		node  int32
		entry float64
	}
	stack := make([]stackEntry, 0, 64)

	if entry, ok := t.nodes[0].intersectBox(origin, invDir, near, far); ok {
		stack = append(stack, stackEntry{node: 0, entry: entry})
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.entry > far {
			continue
		}

		node := &t.nodes[cur.node]
		if node.IsLeaf() {
			first, count := node.Items()
			for i := first; i < first+count; i++ {
				far = fn(t.items[i], cur.entry)
			}
			continue
		}

		lEntry, lHit := t.nodes[node.LData].intersectBox(origin, invDir, near, far)
		rEntry, rHit := t.nodes[node.RData].intersectBox(origin, invDir, near, far)

		// Push the farther child first so the nearer one is visited next.
		switch {
		case lHit && rHit:
			if lEntry <= rEntry {
				stack = append(stack,
					stackEntry{node: node.RData, entry: rEntry},
					stackEntry{node: node.LData, entry: lEntry})
			} else {
				stack = append(stack,
					stackEntry{node: node.LData, entry: lEntry},
					stackEntry{node: node.RData, entry: rEntry})
			}
		case lHit:
			stack = append(stack, stackEntry{node: node.LData, entry: lEntry})
		case rHit:
			stack = append(stack, stackEntry{node: node.RData, entry: rEntry})
		}
	}
}
