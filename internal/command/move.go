package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

// Move relocates existing nodes under a destination parent. The nodes need
// not share a parent, and may already be children of the destination.
type Move struct {
	base
	nodes []*tree.Node
	dest  *tree.Node
	row   int
	from  []slot
}

// NewMove moves nodes, in order, under dest starting at row. A negative row
// appends.
func NewMove(env *Env, nodes []*tree.Node, dest *tree.Node, row int) (*Move, error) {
	if err := checkTargets(nodes); err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if !dest.Kind().Accepts(n.Kind()) {
			return nil, fmt.Errorf("%w: %s cannot hold %s", ErrInvalidDestination, dest.Kind(), n.Kind())
		}
		if tree.Contains(n, dest) {
			return nil, fmt.Errorf("%w: %s #%d would move into itself", ErrInvalidDestination, n.Kind(), n.Serial())
		}
	}
	if row > dest.ChildCount() {
		row = -1
	}
	return &Move{
		base:  base{env: env, text: "Move"},
		nodes: append([]*tree.Node(nil), nodes...),
		dest:  dest,
		row:   row,
	}, nil
}

// anchor returns the destination child the moved nodes go in front of: the
// first child at or after the requested row that is not itself being moved.
// nil means append.
func (c *Move) anchor() *tree.Node {
	if c.row < 0 {
		return nil
	}
	moving := make(map[*tree.Node]bool, len(c.nodes))
	for _, n := range c.nodes {
		moving[n] = true
	}
	for i := c.row; i < c.dest.ChildCount(); i++ {
		if k := c.dest.Child(i); !moving[k] {
			return k
		}
	}
	return nil
}

func (c *Move) Redo() {
	// the anchor must be found before anything is removed: removing earlier
	// siblings of the destination shifts its rows
	before := c.anchor()
	c.from = recordSlots(c.nodes)

	c.begin()
	detachSlots(c.from)

	row := -1
	if c.row >= 0 {
		row = c.dest.ChildCount()
		if before != nil {
			row = c.dest.ChildIndex(before)
		}
	}
	for _, n := range c.nodes {
		c.dest.Insert(row, n)
		if row >= 0 {
			row++
		}
	}
	c.end(c.nodes...)
}

func (c *Move) Undo() {
	c.begin()
	for _, n := range c.nodes {
		c.dest.Remove(n)
	}
	attachSlots(c.from)
	c.end(c.nodes...)
}
