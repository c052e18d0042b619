package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

// Sequence runs child commands as one undoable unit: Redo in construction
// order, Undo in reverse. Later children may rely on nodes created by earlier
// ones, so the order matters.
type Sequence struct {
	base
	children []Command
}

// NewSequence groups children under one history label.
func NewSequence(env *Env, text string, children ...Command) *Sequence {
	return &Sequence{
		base:     base{env: env, text: text},
		children: children,
	}
}

// Len returns the number of child commands.
func (c *Sequence) Len() int { return len(c.children) }

func (c *Sequence) Redo() {
	for _, k := range c.children {
		k.Redo()
	}
}

func (c *Sequence) Undo() {
	for i := len(c.children) - 1; i >= 0; i-- {
		c.children[i].Undo()
	}
}

// NewPhotoImport adds a folder named folder under parent and one waypoint per
// photo inside it.
func NewPhotoImport(env *Env, parent *tree.Node, folder string, photos []Waypoint) (*Sequence, error) {
	if len(photos) == 0 {
		return nil, ErrEmptySelection
	}
	if !parent.Kind().Accepts(tree.KindFolder) {
		return nil, fmt.Errorf("%w: %s cannot hold folders", ErrInvalidDestination, parent.Kind())
	}

	add := addContainer(env, fixed(parent), tree.KindFolder, -1)
	if folder != "" {
		build := add.build
		add.build = func(p *tree.Node, row int) []*tree.Node {
			nodes := build(p, row)
			nodes[0].SetName(folder, true)
			return nodes
		}
	}
	children := []Command{add}
	for _, p := range photos {
		children = append(children, addWaypoint(env, add.Node, p, -1))
	}
	return NewSequence(env, fmt.Sprintf("Import %d Photos", len(photos)), children...), nil
}
