package meta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterner_IndexIsStable(t *testing.T) {
	in := NewInterner()
	a := in.Index("ele")
	b := in.Index("time")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, in.Index("ele"))
	assert.Equal(t, "time", in.NameOf(b))
	assert.Equal(t, "", in.NameOf(Key(99)))
	assert.Equal(t, 2, in.Len())

	_, ok := in.Lookup("color")
	assert.False(t, ok)
	assert.Equal(t, 2, in.Len(), "Lookup must not allocate")
}

func TestProcessKeys(t *testing.T) {
	assert.Equal(t, "ele", NameOf(Elevation))
	assert.Equal(t, Time, Index("time"))
}

func TestStore_SetGetClear(t *testing.T) {
	var s Store
	s.Set(Color, "red")
	s.Set(Elevation, 12.5)

	v, ok := s.Get(Color)
	require.True(t, ok)
	assert.Equal(t, "red", v)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Key{Elevation, Color}, s.Keys())

	s.Set(Color, nil)
	_, ok = s.Get(Color)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	// clearing a missing key is a no-op
	s.Set(Link, nil)
	assert.Equal(t, 1, s.Len())
}

func TestStore_NamedBoundary(t *testing.T) {
	var s Store
	s.SetNamed("heartrate", 140)
	v, ok := s.GetNamed("heartrate")
	require.True(t, ok)
	assert.Equal(t, 140, v)

	_, ok = s.GetNamed("never-interned-name")
	assert.False(t, ok)
	assert.Contains(t, s.Names(), "heartrate")
	assert.Equal(t, map[string]any{"heartrate": 140}, s.Map())
}

func TestStore_CloneAndEqual(t *testing.T) {
	when := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var s Store
	s.Set(Time, when)
	s.Set(Status, "open")

	c := s.Clone()
	assert.True(t, s.Equal(&c))

	got, ok := c.Time()
	require.True(t, ok)
	assert.True(t, got.Equal(when))

	c.Set(Status, "closed")
	assert.False(t, s.Equal(&c))
	assert.Equal(t, "open", s.Value(Status), "clone must not alias the original")

	local := Store{}
	local.Set(Time, when.In(time.FixedZone("x", 3600)))
	local.Set(Status, "open")
	assert.True(t, s.Equal(&local), "timestamps compare by instant")
}
