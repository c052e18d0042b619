package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

// Reverse flips the point order of routes. Applying it twice is the identity,
// so Undo is Redo.
type Reverse struct {
	base
	routes []*tree.Node
}

// NewReverse reverses each route. Segments are refused: their point order is
// their time order.
func NewReverse(env *Env, routes []*tree.Node) (*Reverse, error) {
	if len(routes) == 0 {
		return nil, ErrEmptySelection
	}
	for _, r := range routes {
		if r.Kind() != tree.KindRoute {
			return nil, fmt.Errorf("%w: %s #%d is not a route", ErrNotContainer, r.Kind(), r.Serial())
		}
	}
	return &Reverse{
		base:   base{env: env, text: "Reverse Route"},
		routes: append([]*tree.Node(nil), routes...),
	}, nil
}

func (c *Reverse) flip() {
	c.begin()
	for _, r := range c.routes {
		n := r.ChildCount()
		for i := 0; i < n-1; i++ {
			r.Insert(i, r.RemoveAt(n-1))
		}
	}
	c.end(c.routes...)
}

func (c *Reverse) Redo() { c.flip() }
func (c *Reverse) Undo() { c.flip() }
