package command

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentic-research/trackedit/internal/tree"
)

type mergedSource struct {
	node   *tree.Node
	count  int
	parent *tree.Node
	row    int
}

// Merge appends the points of several containers to a master container and
// removes the emptied containers.
type Merge struct {
	base
	master  *tree.Node
	sources []mergedSource
	holder  *tree.Node
}

// NewMerge merges sources, in order, into master. Sources are expected to share
// master's parent but need not.
func NewMerge(env *Env, master *tree.Node, sources []*tree.Node) (*Merge, error) {
	if !master.IsPointContainer() {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotContainer, master.Kind(), master.Serial())
	}
	if len(sources) == 0 {
		return nil, ErrTooFewContainers
	}
	if err := checkTargets(sources); err != nil {
		return nil, err
	}
	c := &Merge{
		base:   base{env: env, text: fmt.Sprintf("Merge %ss", master.Kind())},
		master: master,
		holder: tree.NewHolder(),
	}
	for _, s := range sources {
		if s == master {
			return nil, fmt.Errorf("%w: master listed as a source", ErrInvalidTarget)
		}
		if s.Kind() != master.Kind() {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedKinds, master.Kind(), s.Kind())
		}
		c.sources = append(c.sources, mergedSource{node: s})
	}
	return c, nil
}

func (c *Merge) Redo() {
	c.begin()
	for i := range c.sources {
		s := &c.sources[i]
		s.count = s.node.ChildCount()
		s.parent = s.node.Parent()
		s.row = s.node.Index()
		for s.node.ChildCount() > 0 {
			c.master.Append(s.node.RemoveAt(0))
		}
		s.parent.RemoveAt(s.row)
		c.holder.Append(s.node)
	}
	c.end(c.master)
}

// Undo works through the sources last to first: each one's points are the
// trailing run of the master only once every later merge has been undone.
func (c *Merge) Undo() {
	c.begin()
	for i := len(c.sources) - 1; i >= 0; i-- {
		s := &c.sources[i]
		c.holder.Remove(s.node)
		if s.node.ChildCount() != 0 {
			panic(fmt.Sprintf("command: merged %s #%d still owns %d points", s.node.Kind(), s.node.Serial(), s.node.ChildCount()))
		}
		start := c.master.ChildCount() - s.count
		for c.master.ChildCount() > start {
			s.node.Append(c.master.RemoveAt(start))
		}
		s.parent.Insert(s.row, s.node)
	}
	sel := []*tree.Node{c.master}
	for _, s := range c.sources {
		sel = append(sel, s.node)
	}
	c.end(sel...)
}

// PrepareMerge orders containers for a merge and picks the master.
//
// When every container carries timestamps on its first and last point, the
// containers are sorted by start time and each one must not start before the
// previous one ends. Only neighbours in the sorted order are compared.
// Otherwise the caller's order is kept. The first container becomes the master.
func PrepareMerge(containers []*tree.Node) (master *tree.Node, sources []*tree.Node, err error) {
	if len(containers) < 2 {
		return nil, nil, ErrTooFewContainers
	}
	kind := containers[0].Kind()
	for _, c := range containers {
		if !c.IsPointContainer() {
			return nil, nil, fmt.Errorf("%w: %s #%d", ErrNotContainer, c.Kind(), c.Serial())
		}
		if c.Kind() != kind {
			return nil, nil, fmt.Errorf("%w: %s and %s", ErrMixedKinds, kind, c.Kind())
		}
	}

	ordered := append([]*tree.Node(nil), containers...)
	type span struct{ first, last time.Time }
	spans := make(map[*tree.Node]span, len(ordered))
	timed := true
	for _, c := range ordered {
		first, ok1 := c.FirstTime()
		last, ok2 := c.LastTime()
		if !ok1 || !ok2 {
			timed = false
			break
		}
		spans[c] = span{first, last}
	}

	if timed {
		sort.SliceStable(ordered, func(i, j int) bool {
			return spans[ordered[i]].first.Before(spans[ordered[j]].first)
		})
		for i := 1; i < len(ordered); i++ {
			prev, cur := ordered[i-1], ordered[i]
			if spans[cur].first.Before(spans[prev].last) {
				return nil, nil, fmt.Errorf("%w: %q starts at %s before %q ends at %s",
					ErrTimeOrder, cur.Name(), spans[cur].first.Format(time.RFC3339),
					prev.Name(), spans[prev].last.Format(time.RFC3339))
			}
		}
	}
	return ordered[0], ordered[1:], nil
}
