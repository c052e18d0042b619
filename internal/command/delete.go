package command

import (
	"github.com/agentic-research/trackedit/internal/tree"
)

// Delete removes nodes from the document and keeps them in a holder until the
// command is undone or dropped.
type Delete struct {
	base
	nodes  []*tree.Node
	slots  []slot
	holder *tree.Node
}

// NewDelete deletes nodes. They may live under different parents but must not
// contain one another.
func NewDelete(env *Env, nodes []*tree.Node) (*Delete, error) {
	if err := checkTargets(nodes); err != nil {
		return nil, err
	}
	return &Delete{
		base:   base{env: env, text: "Delete"},
		nodes:  append([]*tree.Node(nil), nodes...),
		holder: tree.NewHolder(),
	}, nil
}

func (c *Delete) Redo() {
	c.slots = recordSlots(c.nodes)
	sel := c.slots[0].parent

	c.begin()
	for _, n := range detachSlots(c.slots) {
		c.holder.Append(n)
	}
	c.end(sel)
}

// Undo reattaches the nodes in reverse order of their removal.
func (c *Delete) Undo() {
	c.begin()
	for _, n := range c.nodes {
		c.holder.Remove(n)
	}
	attachSlots(c.slots)
	c.end(c.nodes...)
}
