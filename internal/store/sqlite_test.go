package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() *tree.Node {
	file := tree.New(tree.KindFile, "ridge.gpx")
	file.Meta().Set(meta.Description, "two days")
	track := tree.New(tree.KindTrack, "")
	track.SetName("Track", false)
	seg := tree.New(tree.KindSegment, "climb")
	start := time.Date(2024, 6, 1, 8, 0, 0, 123000000, time.UTC)
	for i := 0; i < 4; i++ {
		p := tree.NewPoint(tree.KindTrackPoint, 46.123456789+float64(i), 7.5)
		p.Meta().Set(meta.Time, start.Add(time.Duration(i)*time.Second))
		p.Meta().Set(meta.Elevation, 1000.25+float64(i))
		seg.Append(p)
	}
	track.Append(seg)
	file.Append(track)

	dir := tree.New(tree.KindFolder, "huts")
	w := tree.NewPoint(tree.KindWaypoint, -33.5, 151.25)
	w.SetName("Hut", true)
	w.Meta().SetNamed("rating", 4)
	w.Meta().SetNamed("visited", true)
	dir.Append(w)
	file.Append(dir)
	file.Append(tree.New(tree.KindRoute, "empty route"))
	return file
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "doc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	file := sampleFile()

	snap, err := s.Save(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Nodes)
	assert.Equal(t, "ridge.gpx", snap.Name)
	assert.WithinDuration(t, time.Now(), snap.Saved, time.Minute)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Equal(file, got), "loaded:\n%s\nwant:\n%s", tree.Outline(got), tree.Outline(file))
	assert.NotEqual(t, file.Serial(), got.Serial())

	w := got.Child(1).Child(0)
	assert.Equal(t, 4, w.Meta().Value(meta.Index("rating")))
	assert.Equal(t, true, w.Meta().Value(meta.Index("visited")))
	assert.False(t, got.Child(0).Explicit())
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	_, err := s.Save(ctx, sampleFile())
	require.NoError(t, err)

	small := tree.New(tree.KindFile, "small")
	second, err := s.Save(ctx, small)
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "small", got.Name())
	assert.Equal(t, 0, got.ChildCount())

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, info.ID)
	assert.Equal(t, 1, info.Nodes)
}

func TestEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = s.Info(ctx)
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = s.Save(ctx, nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(ctx, sampleFile())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sampleFile(), got))
}
