package tree

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
)

var nextSerial atomic.Uint32

// Node is one element of a document: a file, track, segment, route, folder,
// point, waypoint or an orphan holder.
//
// The parent field is a back-reference only. It is written exclusively by
// Insert and RemoveAt, together with the parent's child list, so the two never
// disagree. A node with a nil parent is either a document root, a holder, or a
// freshly built node that has not been attached yet.
type Node struct {
	kind     Kind
	serial   uint32
	name     string
	explicit bool
	meta     meta.Store
	lat, lon float64

	parent   *Node
	children []*Node
}

// New creates a detached node. A non-empty name counts as explicit.
func New(kind Kind, name string) *Node {
	return &Node{
		kind:     kind,
		serial:   nextSerial.Add(1),
		name:     name,
		explicit: name != "",
	}
}

// NewPoint creates a detached point of the given kind at lat/lon.
func NewPoint(kind Kind, lat, lon float64) *Node {
	if !kind.IsPoint() {
		panic(fmt.Sprintf("tree: %s is not a point kind", kind))
	}
	n := New(kind, "")
	n.lat, n.lon = lat, lon
	return n
}

// NewHolder creates an empty orphan holder.
func NewHolder() *Node {
	return New(KindHolder, "")
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Serial() uint32 { return n.serial }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Name() string { return n.name }
func (n *Node) Explicit() bool { return n.explicit }
func (n *Node) IsPoint() bool { return n.kind.IsPoint() }
func (n *Node) Lat() float64 { return n.lat }
func (n *Node) Lon() float64 { return n.lon }
func (n *Node) Meta() *meta.Store { return &n.meta }

// IsPointContainer reports whether n is a segment or a route.
func (n *Node) IsPointContainer() bool { return n.kind.IsPointContainer() }

// SetName replaces the display name and its explicit flag.
func (n *Node) SetName(name string, explicit bool) {
	n.name = name
	n.explicit = explicit
}

// SetPosition moves a point. It is a no-op on non-point nodes.
func (n *Node) SetPosition(lat, lon float64) {
	if !n.IsPoint() {
		return
	}
	n.lat, n.lon = lat, lon
}

// ChildCount returns the number of owned children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at i.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildIndex returns the position of c among n's children, or -1.
func (n *Node) ChildIndex(c *Node) int {
	if c == nil || c.parent != n {
		return -1
	}
	for i, k := range n.children {
		if k == c {
			return i
		}
	}
	return -1
}

// Index returns n's position within its parent, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return n.parent.ChildIndex(n)
}

// NextSibling returns the node right after n in its parent, if any.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= n.parent.ChildCount() {
		return nil
	}
	return n.parent.children[i+1]
}

// Insert attaches c as the child at row. A row outside [0, ChildCount] appends.
// c must be detached and of a kind n accepts.
func (n *Node) Insert(row int, c *Node) {
	if c.parent != nil {
		panic(fmt.Sprintf("tree: attach of %s #%d which already has a parent", c.kind, c.serial))
	}
	if c == n {
		panic("tree: node attached to itself")
	}
	if !n.kind.Accepts(c.kind) {
		panic(fmt.Sprintf("tree: %s cannot own %s", n.kind, c.kind))
	}
	if row < 0 || row > len(n.children) {
		row = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[row+1:], n.children[row:])
	n.children[row] = c
	c.parent = n
}

// Append attaches c as the last child.
func (n *Node) Append(c *Node) { n.Insert(len(n.children), c) }

// RemoveAt detaches and returns the child at row.
func (n *Node) RemoveAt(row int) *Node {
	c := n.children[row]
	copy(n.children[row:], n.children[row+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	c.parent = nil
	return c
}

// Remove detaches c, which must be a child of n, and returns its former row.
func (n *Node) Remove(c *Node) int {
	row := n.ChildIndex(c)
	if row < 0 {
		panic(fmt.Sprintf("tree: %s #%d is not a child of %s #%d", c.kind, c.serial, n.kind, n.serial))
	}
	n.RemoveAt(row)
	return row
}

// Detach removes n from its parent and returns the former parent and row.
func (n *Node) Detach() (*Node, int) {
	p := n.parent
	if p == nil {
		return nil, -1
	}
	return p, p.Remove(n)
}

// TakeLast detaches and returns the last child.
func (n *Node) TakeLast() *Node { return n.RemoveAt(len(n.children) - 1) }

// Clone returns a detached deep copy with fresh serials.
func (n *Node) Clone() *Node {
	c := &Node{
		kind:     n.kind,
		serial:   nextSerial.Add(1),
		name:     n.name,
		explicit: n.explicit,
		meta:     n.meta.Clone(),
		lat:      n.lat,
		lon:      n.lon,
	}
	for _, k := range n.children {
		kc := k.Clone()
		kc.parent = c
		c.children = append(c.children, kc)
	}
	return c
}

// Time returns the node's own timestamp.
func (n *Node) Time() (time.Time, bool) { return n.meta.Time() }

// FirstTime returns the timestamp of the first child.
func (n *Node) FirstTime() (time.Time, bool) {
	if len(n.children) == 0 {
		return time.Time{}, false
	}
	return n.children[0].Time()
}

// LastTime returns the timestamp of the last child.
func (n *Node) LastTime() (time.Time, bool) {
	if len(n.children) == 0 {
		return time.Time{}, false
	}
	return n.children[len(n.children)-1].Time()
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Find returns the node with the given serial below (or at) root.
func Find(root *Node, serial uint32) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.serial == serial {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == root {
			return true
		}
	}
	return false
}
