package command

import (
	"testing"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/agentic-research/trackedit/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	env   *Env
	rec   *view.Recorder
	root  *tree.Node
	track *tree.Node
	seg   *tree.Node
	route *tree.Node
	dir   *tree.Node
	wpt   *tree.Node
}

// newSegment builds a segment of n points spaced one minute apart from start.
func newSegment(name string, n int, start time.Time) *tree.Node {
	seg := tree.New(tree.KindSegment, name)
	for i := 0; i < n; i++ {
		p := tree.NewPoint(tree.KindTrackPoint, 47+float64(i)/100, 8+float64(i)/100)
		p.Meta().Set(meta.Time, start.Add(time.Duration(i)*time.Minute))
		p.Meta().Set(meta.Elevation, 400+float64(i))
		seg.Append(p)
	}
	return seg
}

// newFixture builds:
//
//	file "doc"
//	  track "Morning Run"
//	    segment "seg" (5 timed points)
//	  route "r1" (3 points)
//	  folder "places"
//	    waypoint "hut"
//	  waypoint "summit"
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{rec: &view.Recorder{}}
	f.root = tree.New(tree.KindFile, "doc")
	f.track = tree.New(tree.KindTrack, "Morning Run")
	f.seg = newSegment("seg", 5, t0)
	f.track.Append(f.seg)
	f.root.Append(f.track)

	f.route = tree.New(tree.KindRoute, "r1")
	for i := 0; i < 3; i++ {
		f.route.Append(tree.NewPoint(tree.KindRoutePoint, float64(i), float64(i)))
	}
	f.root.Append(f.route)

	f.dir = tree.New(tree.KindFolder, "places")
	hut := tree.NewPoint(tree.KindWaypoint, 46.5, 7.9)
	hut.SetName("hut", true)
	f.dir.Append(hut)
	f.root.Append(f.dir)

	f.wpt = tree.NewPoint(tree.KindWaypoint, 46.6, 8.0)
	f.wpt.SetName("summit", true)
	f.root.Append(f.wpt)

	f.env = &Env{Doc: tree.NewDocument(f.root), View: f.rec}
	return f
}

// roundTrip checks redo/undo/redo/undo against the tree's full outline
// (serials included, so re-created nodes would be caught).
func roundTrip(t *testing.T, f *fixture, c Command) {
	t.Helper()
	before := tree.Outline(f.root)
	c.Redo()
	after := tree.Outline(f.root)
	require.NotEqual(t, before, after, "redo changed nothing")

	c.Undo()
	require.Equal(t, before, tree.Outline(f.root), "undo must restore the tree")
	c.Redo()
	require.Equal(t, after, tree.Outline(f.root), "second redo must reuse the first redo's nodes")
	c.Undo()
	require.Equal(t, before, tree.Outline(f.root))
	require.NoError(t, f.rec.Err())
}

func serials(nodes []*tree.Node) []uint32 {
	out := make([]uint32, len(nodes))
	for i, n := range nodes {
		out[i] = n.Serial()
	}
	return out
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	f.seg.SetName("Segment 1", false)

	c := NewRename(f.env, f.seg, "climb")
	roundTrip(t, f, c)

	c.Redo()
	assert.Equal(t, "climb", f.seg.Name())
	assert.True(t, f.seg.Explicit())
	c.Undo()
	assert.Equal(t, "Segment 1", f.seg.Name())
	assert.False(t, f.seg.Explicit())
	assert.Equal(t, "Rename segment", c.Text())
}

func TestSetMetadata(t *testing.T) {
	f := newFixture(t)
	f.track.Meta().Set(meta.Color, "blue")

	c, err := NewSetMetadata(f.env, []*tree.Node{f.track, f.route}, "color", "red")
	require.NoError(t, err)
	roundTrip(t, f, c)

	f.rec.Reset()
	c.Redo()
	assert.Equal(t, "red", f.track.Meta().Value(meta.Color))
	assert.Equal(t, "red", f.route.Meta().Value(meta.Color))
	c.Undo()
	assert.Equal(t, "blue", f.track.Meta().Value(meta.Color))
	_, ok := f.route.Meta().Get(meta.Color)
	assert.False(t, ok, "an attribute that was absent must be absent again")
	assert.Equal(t, 2*2, f.rec.Count(view.EventNodeChanged))

	_, err = NewSetMetadata(f.env, nil, "color", "red")
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestSetMetadata_Clear(t *testing.T) {
	f := newFixture(t)
	p := f.seg.Child(0)
	c, err := NewSetMetadata(f.env, []*tree.Node{p}, "ele", nil)
	require.NoError(t, err)
	roundTrip(t, f, c)
}

func TestMovePoints(t *testing.T) {
	f := newFixture(t)
	pts := []*tree.Node{f.seg.Child(1), f.wpt}
	lat, lon := f.wpt.Lat(), f.wpt.Lon()

	c, err := NewMovePoints(f.env, pts, 0.1, -0.3)
	require.NoError(t, err)
	roundTrip(t, f, c)

	c.Redo()
	assert.InDelta(t, lat+0.1, f.wpt.Lat(), 1e-12)
	assert.InDelta(t, lon-0.3, f.wpt.Lon(), 1e-12)
	c.Undo()
	assert.Equal(t, lat, f.wpt.Lat())

	_, err = NewMovePoints(f.env, []*tree.Node{f.seg}, 1, 1)
	assert.ErrorIs(t, err, ErrNotPoint)
}

func TestInPlaceEditsDoNotBracket(t *testing.T) {
	f := newFixture(t)
	NewRename(f.env, f.wpt, "peak").Redo()
	assert.Equal(t, 0, f.rec.Count(view.EventBeginLayout))
	assert.Equal(t, []view.EventType{view.EventNodeChanged, view.EventSelect, view.EventDocumentChanged}, f.rec.Types())
}

func TestStructuralEditsBracket(t *testing.T) {
	f := newFixture(t)
	c, err := NewDelete(f.env, []*tree.Node{f.wpt})
	require.NoError(t, err)
	c.Redo()
	c.Undo()
	require.NoError(t, f.rec.Err())
	types := f.rec.Types()
	require.NotEmpty(t, types)
	assert.Equal(t, view.EventBeginLayout, types[0])
	assert.Equal(t, view.EventEndLayout, types[1])
	assert.Equal(t, 2, f.rec.Count(view.EventDocumentChanged))
}

func TestNaming(t *testing.T) {
	n := DefaultNaming()
	assert.Equal(t, "Day 1 (split)", n.SplitName("Day 1"))
	assert.Equal(t, "seg_split", n.SplitName("seg"))
	assert.Equal(t, "Folder", Naming{}.DefaultName(tree.KindFolder))
	assert.Equal(t, "Spur", Naming{Track: "Spur"}.DefaultName(tree.KindTrack))
	assert.Equal(t, "", n.DefaultName(tree.KindWaypoint))
}
