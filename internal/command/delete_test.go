package command

import (
	"testing"

	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/agentic-research/trackedit/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelete_ScatteredNodes(t *testing.T) {
	f := newFixture(t)
	hut := f.dir.Child(0)
	targets := []*tree.Node{f.seg.Child(3), hut, f.seg.Child(1), f.route.Child(0)}
	type pos struct {
		parent *tree.Node
		row    int
	}
	var before []pos
	for _, n := range targets {
		before = append(before, pos{n.Parent(), n.Index()})
	}

	c, err := NewDelete(f.env, targets)
	require.NoError(t, err)
	roundTrip(t, f, c)

	f.rec.Reset()
	c.Redo()
	assert.Equal(t, 3, f.seg.ChildCount())
	assert.Equal(t, 0, f.dir.ChildCount())
	assert.Equal(t, 2, f.route.ChildCount())
	for _, n := range targets {
		assert.Equal(t, tree.KindHolder, n.Parent().Kind())
	}
	sel := lastSelect(f.rec)
	assert.Equal(t, []uint32{f.seg.Serial()}, sel, "the first target's parent is selected")

	c.Undo()
	for i, n := range targets {
		assert.Equal(t, before[i].parent, n.Parent())
		assert.Equal(t, before[i].row, before[i].parent.ChildIndex(n))
	}
	assert.ElementsMatch(t, serials(targets), lastSelect(f.rec))
}

func TestDelete_Rejects(t *testing.T) {
	f := newFixture(t)
	_, err := NewDelete(f.env, []*tree.Node{f.track, f.seg.Child(0)})
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = NewDelete(f.env, []*tree.Node{f.wpt, f.wpt})
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = NewDelete(f.env, []*tree.Node{tree.New(tree.KindFolder, "loose")})
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = NewDelete(f.env, nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func lastSelect(r *view.Recorder) []uint32 {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == view.EventSelect {
			return events[i].Serials
		}
	}
	return nil
}
