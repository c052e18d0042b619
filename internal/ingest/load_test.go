package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
{
  "version": "v1",
  "name": "ridge.gpx",
  "meta": {"desc": "two days on the ridge"},
  "nodes": [
    {"kind": "track", "name": "Day 1", "meta": {"color": "red"}, "children": [
      {"kind": "segment", "children": [
        {"kind": "trackpoint", "lat": 46.5, "lon": 7.9, "meta": {"ele": 1200, "time": "2024-06-01T08:00:00Z"}},
        {"kind": "trackpoint", "lat": 46.6, "lon": 7.8, "meta": {"ele": 1350.5, "time": "2024-06-01T08:10:00Z"}}
      ]}
    ]},
    {"kind": "route", "name": "descent", "children": [
      {"kind": "routepoint", "lat": 46.6, "lon": 7.8},
      {"kind": "routepoint", "lat": 46.4, "lon": 7.6, "name": "station"}
    ]},
    {"kind": "folder", "name": "huts", "children": [
      {"kind": "waypoint", "name": "Hut A", "lat": 46.55, "lon": 7.85, "meta": {"sym": "Lodge"}}
    ]}
  ]
}`

func TestLoad(t *testing.T) {
	file, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, tree.KindFile, file.Kind())
	assert.Equal(t, "ridge.gpx", file.Name())
	assert.Equal(t, "two days on the ridge", file.Meta().Value(meta.Description))
	require.Equal(t, 3, file.ChildCount())

	track := file.Child(0)
	assert.Equal(t, "red", track.Meta().Value(meta.Color))
	seg := track.Child(0)
	assert.False(t, seg.Explicit())
	require.Equal(t, 2, seg.ChildCount())
	first, ok := seg.FirstTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), first.UTC())
	assert.Equal(t, 1350.5, seg.Child(1).Meta().Value(meta.Elevation))

	route := file.Child(1)
	assert.Equal(t, "station", route.Child(1).Name())
	assert.False(t, route.Child(0).Explicit())
	assert.Equal(t, "Lodge", file.Child(2).Child(0).Meta().Value(meta.Symbol))
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]struct {
		input string
		err   error
	}{
		"unknown kind": {`{"nodes":[{"kind":"polygon"}]}`, ErrUnknownKind},
		"nested file":  {`{"nodes":[{"kind":"file"}]}`, ErrUnknownKind},
		"holder":       {`{"nodes":[{"kind":"holder"}]}`, ErrUnknownKind},
		"bad nesting":  {`{"nodes":[{"kind":"trackpoint"}]}`, ErrBadNesting},
		"route in track": {
			`{"nodes":[{"kind":"track","children":[{"kind":"route"}]}]}`, ErrBadNesting,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := Load(strings.NewReader(`{"nodes":[{"kind":"waypoint","meta":{"time":"yesterday"}}]}`))
	assert.Error(t, err)
	_, err = Load(strings.NewReader(`{"nodes":[`))
	assert.Error(t, err)
}

func TestLoadFile_Memfs(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "tracks/ridge.json", []byte(sample), 0o644))
	require.NoError(t, util.WriteFile(fs, "tracks/extra/plain.json", []byte(`{"nodes":[]}`), 0o644))
	require.NoError(t, util.WriteFile(fs, "tracks/notes.txt", []byte("skip me"), 0o644))

	file, err := LoadFile(fs, "tracks/ridge.json")
	require.NoError(t, err)
	assert.Equal(t, "ridge.gpx", file.Name())

	files, err := LoadDir(fs, "tracks")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "plain.json", files[0].Name(), "an unnamed document is named after its file")
	assert.False(t, files[0].Explicit())

	_, err = LoadFile(fs, "tracks/missing.json")
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	file, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	doc := ExportDocument(file)
	assert.NotZero(t, doc.Nodes[0].Serial)
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	again, err := Load(strings.NewReader(string(b)))
	require.NoError(t, err)
	assert.True(t, tree.Equal(file, again), "export then load reproduces the document")
}
