package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

// Split cuts a segment or route in two at a point. The point at the split
// index ends the original container and a copy of it starts the new one.
type Split struct {
	base
	source *tree.Node
	index  int
	part   reserve
}

// NewSplit splits container at index, which must leave at least one point on
// each side: 0 < index < ChildCount()-1.
func NewSplit(env *Env, container *tree.Node, index int) (*Split, error) {
	if !container.IsPointContainer() {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotContainer, container.Kind(), container.Serial())
	}
	if container.Parent() == nil {
		return nil, fmt.Errorf("%w: %s #%d is not in a document", ErrInvalidSplit, container.Kind(), container.Serial())
	}
	if index <= 0 || index >= container.ChildCount()-1 {
		return nil, fmt.Errorf("%w: index %d of %d points", ErrInvalidSplit, index, container.ChildCount())
	}
	return &Split{
		base:   base{env: env, text: fmt.Sprintf("Split %s", container.Kind())},
		source: container,
		index:  index,
	}, nil
}

// Part returns the second container once the split has been applied.
func (c *Split) Part() *tree.Node { return c.part.node }

func (c *Split) Redo() {
	if !c.part.built() {
		name := c.env.naming().SplitName(c.source.Name())
		part := tree.CopyShell(c.source, name)
		part.SetName(name, c.source.Explicit())
		part.Append(tree.CopyPoint(c.source.Child(c.index)))
		c.part.stash(part)
	}
	if n := c.part.node.ChildCount(); n != 1 {
		panic(fmt.Sprintf("command: split part holds %d points before redo, want 1", n))
	}
	part := c.part.take()

	c.begin()
	for c.source.ChildCount() > c.index+1 {
		part.Append(c.source.RemoveAt(c.index + 1))
	}
	parent := c.source.Parent()
	parent.Insert(c.source.Index()+1, part)
	c.end(part)
}

func (c *Split) Undo() {
	part := c.source.NextSibling()
	if part != c.part.node {
		panic("command: split part is not the next sibling of its source")
	}

	c.begin()
	for part.ChildCount() > 1 {
		c.source.Append(part.RemoveAt(1))
	}
	part.Parent().Remove(part)
	c.part.stash(part)
	c.end(c.source)
}
