package view

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/trackedit/internal/tree"
)

// Selection tracks the selected node set as a roaring bitmap of node serials.
// It only reacts to selection notifications; layout notifications are ignored.
type Selection struct {
	bm *roaring.Bitmap
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{bm: roaring.New()}
}

func (s *Selection) BeginLayoutChange() {}
func (s *Selection) EndLayoutChange() {}
func (s *Selection) NodeChanged(*tree.Node) {}
func (s *Selection) DocumentChanged() {}

// Select replaces the selection with nodes.
func (s *Selection) Select(nodes ...*tree.Node) {
	s.bm.Clear()
	for _, n := range nodes {
		s.bm.Add(n.Serial())
	}
}

// Add extends the selection without clearing it.
func (s *Selection) Add(nodes ...*tree.Node) {
	for _, n := range nodes {
		s.bm.Add(n.Serial())
	}
}

func (s *Selection) ClearSelection() { s.bm.Clear() }

// Contains reports whether n is selected.
func (s *Selection) Contains(n *tree.Node) bool { return s.bm.Contains(n.Serial()) }

// Len returns the number of selected nodes.
func (s *Selection) Len() int { return int(s.bm.GetCardinality()) }

// Serials returns the selected serials in ascending order.
func (s *Selection) Serials() []uint32 { return s.bm.ToArray() }

// Resolve returns the selected nodes found under root, in document order.
// Selected serials that are no longer in the tree are skipped.
func (s *Selection) Resolve(root *tree.Node) []*tree.Node {
	if root == nil || s.bm.IsEmpty() {
		return nil
	}
	var out []*tree.Node
	tree.Walk(root, func(n *tree.Node) bool {
		if s.bm.Contains(n.Serial()) {
			out = append(out, n)
		}
		return true
	})
	return out
}
