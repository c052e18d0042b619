package command

import (
	"fmt"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
)

// Insert attaches newly built nodes. The nodes are built on the first Redo,
// parked in a holder by Undo and reattached, not rebuilt, by later redos.
type Insert struct {
	base
	parent func() *tree.Node
	row    int
	build  func(parent *tree.Node, row int) []*tree.Node
	holder *tree.Node
	nodes  []*tree.Node
}

func newInsert(env *Env, text string, parent func() *tree.Node, row int, build func(*tree.Node, int) []*tree.Node) *Insert {
	return &Insert{
		base:   base{env: env, text: text},
		parent: parent,
		row:    row,
		build:  build,
		holder: tree.NewHolder(),
	}
}

func fixed(n *tree.Node) func() *tree.Node { return func() *tree.Node { return n } }

// Nodes returns the inserted nodes, or nil before the first Redo.
func (c *Insert) Nodes() []*tree.Node { return c.nodes }

// Node returns the first inserted node, or nil before the first Redo.
func (c *Insert) Node() *tree.Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[0]
}

func (c *Insert) Redo() {
	parent := c.parent()
	if c.nodes == nil {
		if c.holder.ChildCount() != 0 {
			panic("command: insert holder is not empty before first build")
		}
		c.nodes = c.build(parent, c.row)
		for _, n := range c.nodes {
			c.holder.Append(n)
		}
	}
	if c.holder.ChildCount() != len(c.nodes) {
		panic(fmt.Sprintf("command: insert holder has %d nodes, want %d", c.holder.ChildCount(), len(c.nodes)))
	}

	c.begin()
	row := c.row
	for range c.nodes {
		parent.Insert(row, c.holder.RemoveAt(0))
		if row >= 0 {
			row++
		}
	}
	c.end(c.nodes...)
}

func (c *Insert) Undo() {
	c.begin()
	for _, n := range c.nodes {
		n.Parent().Remove(n)
		c.holder.Append(n)
	}
	c.end()
}

// NewAddContainer adds an empty track, route, segment or folder under parent
// at row (negative appends). A new track starts with one empty segment.
func NewAddContainer(env *Env, parent *tree.Node, kind tree.Kind, row int) (*Insert, error) {
	switch kind {
	case tree.KindTrack, tree.KindRoute, tree.KindSegment, tree.KindFolder:
	default:
		return nil, fmt.Errorf("%w: %s is not a container", ErrInvalidTarget, kind)
	}
	if !parent.Kind().Accepts(kind) {
		return nil, fmt.Errorf("%w: %s cannot hold %s", ErrInvalidDestination, parent.Kind(), kind)
	}
	return addContainer(env, fixed(parent), kind, row), nil
}

func addContainer(env *Env, parent func() *tree.Node, kind tree.Kind, row int) *Insert {
	naming := env.naming()
	return newInsert(env, fmt.Sprintf("Add %s", kind), parent, row, func(*tree.Node, int) []*tree.Node {
		n := tree.New(kind, "")
		n.SetName(naming.DefaultName(kind), false)
		if kind == tree.KindTrack {
			seg := tree.New(tree.KindSegment, "")
			seg.SetName(naming.DefaultName(tree.KindSegment), false)
			n.Append(seg)
		}
		return []*tree.Node{n}
	})
}

// NewAddPoint adds a point to a segment or route at row (negative appends).
// Between two points the new one sits at their midpoint, and takes the mean
// of their elevations and timestamps when both carry one. At either end it
// copies the neighbouring point's position.
func NewAddPoint(env *Env, container *tree.Node, row int) (*Insert, error) {
	kind, ok := container.Kind().PointKind()
	if !ok {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotContainer, container.Kind(), container.Serial())
	}
	if row > container.ChildCount() {
		row = -1
	}
	return newInsert(env, "Add Point", fixed(container), row, func(parent *tree.Node, row int) []*tree.Node {
		return []*tree.Node{interpolate(parent, kind, row)}
	}), nil
}

func interpolate(parent *tree.Node, kind tree.Kind, row int) *tree.Node {
	count := parent.ChildCount()
	if row < 0 {
		row = count
	}
	var prev, next *tree.Node
	if row > 0 {
		prev = parent.Child(row - 1)
	}
	if row < count {
		next = parent.Child(row)
	}
	switch {
	case prev != nil && next != nil:
		p := tree.NewPoint(kind, (prev.Lat()+next.Lat())/2, (prev.Lon()+next.Lon())/2)
		if a, ok := prev.Meta().Value(meta.Elevation).(float64); ok {
			if b, ok := next.Meta().Value(meta.Elevation).(float64); ok {
				p.Meta().Set(meta.Elevation, (a+b)/2)
			}
		}
		if a, ok := prev.Time(); ok {
			if b, ok := next.Time(); ok {
				p.Meta().Set(meta.Time, a.Add(b.Sub(a)/2))
			}
		}
		return p
	case prev != nil:
		return tree.NewPoint(kind, prev.Lat(), prev.Lon())
	case next != nil:
		return tree.NewPoint(kind, next.Lat(), next.Lon())
	}
	return tree.NewPoint(kind, 0, 0)
}

// Waypoint describes a waypoint to create.
type Waypoint struct {
	Name     string
	Lat, Lon float64
	Time     time.Time
	Link     string
}

func (w Waypoint) node(kind tree.Kind) *tree.Node {
	n := tree.NewPoint(kind, w.Lat, w.Lon)
	if w.Name != "" {
		n.SetName(w.Name, true)
	}
	if !w.Time.IsZero() {
		n.Meta().Set(meta.Time, w.Time)
	}
	if w.Link != "" {
		n.Meta().Set(meta.Link, w.Link)
	}
	return n
}

// NewAddWaypoint adds a waypoint to a file or folder at row (negative appends).
func NewAddWaypoint(env *Env, parent *tree.Node, w Waypoint, row int) (*Insert, error) {
	if !parent.Kind().Accepts(tree.KindWaypoint) {
		return nil, fmt.Errorf("%w: %s cannot hold waypoints", ErrInvalidDestination, parent.Kind())
	}
	return addWaypoint(env, fixed(parent), w, row), nil
}

func addWaypoint(env *Env, parent func() *tree.Node, w Waypoint, row int) *Insert {
	return newInsert(env, "Add Waypoint", parent, row, func(*tree.Node, int) []*tree.Node {
		return []*tree.Node{w.node(tree.KindWaypoint)}
	})
}

// NewAddRoutepoint adds a point to a route at row (negative appends).
func NewAddRoutepoint(env *Env, route *tree.Node, w Waypoint, row int) (*Insert, error) {
	if route.Kind() != tree.KindRoute {
		return nil, fmt.Errorf("%w: %s #%d is not a route", ErrNotContainer, route.Kind(), route.Serial())
	}
	return newInsert(env, "Add Routepoint", fixed(route), row, func(*tree.Node, int) []*tree.Node {
		return []*tree.Node{w.node(tree.KindRoutePoint)}
	}), nil
}

// NewPaste inserts deep copies of nodes under parent at row (negative appends).
// The copies are taken when the command is built and held until the first Redo.
func NewPaste(env *Env, nodes []*tree.Node, parent *tree.Node, row int) (*Insert, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptySelection
	}
	for _, n := range nodes {
		if !parent.Kind().Accepts(n.Kind()) {
			return nil, fmt.Errorf("%w: %s cannot hold %s", ErrInvalidDestination, parent.Kind(), n.Kind())
		}
	}
	c := newInsert(env, "Paste", fixed(parent), row, nil)
	for _, n := range nodes {
		cp := n.Clone()
		c.holder.Append(cp)
		c.nodes = append(c.nodes, cp)
	}
	return c, nil
}
