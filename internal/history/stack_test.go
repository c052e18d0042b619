package history

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/agentic-research/trackedit/internal/command"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T) (*command.Env, *tree.Node) {
	t.Helper()
	root := tree.New(tree.KindFile, "doc")
	route := tree.New(tree.KindRoute, "r")
	for i := 0; i < 4; i++ {
		route.Append(tree.NewPoint(tree.KindRoutePoint, float64(i), 0))
	}
	root.Append(route)
	return &command.Env{Doc: tree.NewDocument(root)}, route
}

func TestStack_UndoRedo(t *testing.T) {
	env, route := newDoc(t)
	s := New(nil)
	assert.True(t, s.IsClean())
	assert.False(t, s.Undo())
	assert.False(t, s.Redo())

	before := tree.Outline(env.Doc.Root())
	s.Push(command.NewRename(env, route, "to the hut"))
	split, err := command.NewSplit(env, route, 1)
	require.NoError(t, err)
	s.Push(split)
	after := tree.Outline(env.Doc.Root())

	assert.Equal(t, 2, s.Index())
	assert.Equal(t, "Split route", s.UndoText())
	assert.Equal(t, "", s.RedoText())
	assert.False(t, s.IsClean())

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	assert.Equal(t, before, tree.Outline(env.Doc.Root()))
	assert.True(t, s.IsClean())
	assert.Equal(t, "Rename route", s.RedoText())

	require.True(t, s.Redo())
	require.True(t, s.Redo())
	assert.Equal(t, after, tree.Outline(env.Doc.Root()))
	assert.False(t, s.CanRedo())
}

func TestStack_PushDropsRedoTail(t *testing.T) {
	env, route := newDoc(t)
	s := New(nil)
	s.Push(command.NewRename(env, route, "a"))
	s.Push(command.NewRename(env, route, "b"))
	s.Undo()
	assert.Equal(t, 2, s.Len())

	s.Push(command.NewRename(env, route, "c"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Index())
	assert.False(t, s.CanRedo())
	s.Undo()
	assert.Equal(t, "a", route.Name())
}

func TestStack_CleanLostWithRedoTail(t *testing.T) {
	env, route := newDoc(t)
	s := New(nil)
	s.Push(command.NewRename(env, route, "a"))
	s.Push(command.NewRename(env, route, "b"))
	s.SetClean()
	s.Undo()
	s.Push(command.NewRename(env, route, "c"))
	for s.CanUndo() {
		assert.False(t, s.IsClean())
		s.Undo()
	}
	assert.False(t, s.IsClean(), "the saved state was discarded")

	s.SetClean()
	assert.True(t, s.IsClean())
}

func TestStack_ClearAndLogging(t *testing.T) {
	env, route := newDoc(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(log)
	s.Push(command.NewRename(env, route, "a"))
	s.Undo()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.IsClean())
	assert.Contains(t, buf.String(), "history push")
	assert.Contains(t, buf.String(), `text="Rename route"`)
	assert.Contains(t, buf.String(), "history undo")
}
