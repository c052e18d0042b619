package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
)

// Rename gives a node an explicit name.
type Rename struct {
	base
	node        *tree.Node
	name        string
	oldName     string
	oldExplicit bool
}

// NewRename renames node. Rejecting an empty name for a node that already has
// an explicit one is left to the caller.
func NewRename(env *Env, node *tree.Node, name string) *Rename {
	return &Rename{
		base: base{env: env, text: fmt.Sprintf("Rename %s", node.Kind())},
		node: node,
		name: name,
	}
}

func (c *Rename) Redo() {
	c.oldName, c.oldExplicit = c.node.Name(), c.node.Explicit()
	c.node.SetName(c.name, true)
	c.changed(c.node)
}

func (c *Rename) Undo() {
	c.node.SetName(c.oldName, c.oldExplicit)
	c.changed(c.node)
}

// SetMetadata writes one attribute on several nodes at once.
type SetMetadata struct {
	base
	nodes []*tree.Node
	key   meta.Key
	value any
	old   []any
}

// NewSetMetadata sets the attribute name to value on every node. A nil value
// clears the attribute.
func NewSetMetadata(env *Env, nodes []*tree.Node, name string, value any) (*SetMetadata, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptySelection
	}
	return &SetMetadata{
		base:  base{env: env, text: fmt.Sprintf("Set %s", name)},
		nodes: append([]*tree.Node(nil), nodes...),
		key:   meta.Index(name),
		value: value,
	}, nil
}

func (c *SetMetadata) Redo() {
	c.old = make([]any, len(c.nodes))
	for i, n := range c.nodes {
		c.old[i] = n.Meta().Value(c.key)
		n.Meta().Set(c.key, c.value)
	}
	c.changed(c.nodes...)
}

func (c *SetMetadata) Undo() {
	for i, n := range c.nodes {
		n.Meta().Set(c.key, c.old[i])
	}
	c.changed(c.nodes...)
}

// MovePoints shifts points by a latitude/longitude offset.
type MovePoints struct {
	base
	points     []*tree.Node
	dlat, dlon float64
	old        [][2]float64
}

// NewMovePoints offsets every point by dlat/dlon.
func NewMovePoints(env *Env, points []*tree.Node, dlat, dlon float64) (*MovePoints, error) {
	if len(points) == 0 {
		return nil, ErrEmptySelection
	}
	for _, p := range points {
		if !p.IsPoint() {
			return nil, fmt.Errorf("%w: %s #%d", ErrNotPoint, p.Kind(), p.Serial())
		}
	}
	return &MovePoints{
		base:   base{env: env, text: "Move Points"},
		points: append([]*tree.Node(nil), points...),
		dlat:   dlat,
		dlon:   dlon,
	}, nil
}

// Redo adds the offset. Undo puts back the positions recorded here.
func (c *MovePoints) Redo() {
	c.old = make([][2]float64, len(c.points))
	for i, p := range c.points {
		c.old[i] = [2]float64{p.Lat(), p.Lon()}
		p.SetPosition(p.Lat()+c.dlat, p.Lon()+c.dlon)
	}
	c.changed(c.points...)
}

func (c *MovePoints) Undo() {
	for i, p := range c.points {
		p.SetPosition(c.old[i][0], c.old[i][1])
	}
	c.changed(c.points...)
}
