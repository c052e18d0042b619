package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentic-research/trackedit/internal/command"
	"github.com/agentic-research/trackedit/internal/history"
	"github.com/agentic-research/trackedit/internal/store"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/agentic-research/trackedit/internal/view"
)

// session is one open document with its undo history.
type session struct {
	db      *store.Store
	env     *command.Env
	history *history.Stack
	sel     *view.Selection
	log     *slog.Logger
}

func openSession(ctx context.Context, path string, naming command.Naming, log *slog.Logger) (*session, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	root, err := db.Load(ctx)
	if err != nil && !errors.Is(err, store.ErrNoDocument) {
		_ = db.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	sel := view.NewSelection()
	s := &session{
		db:      db,
		sel:     sel,
		history: history.New(log),
		log:     log,
	}
	s.env = &command.Env{
		Doc:    tree.NewDocument(root),
		View:   view.Multi{sel, view.Logger{Log: log}},
		Naming: naming,
	}
	return s, nil
}

func (s *session) root() *tree.Node { return s.env.Doc.Root() }

func (s *session) do(c command.Command) {
	s.history.Push(c)
}

func (s *session) save(ctx context.Context) error {
	if s.root() == nil {
		return store.ErrNoDocument
	}
	snap, err := s.db.Save(ctx, s.root())
	if err != nil {
		return err
	}
	s.history.SetClean()
	s.log.Info("document saved", "snapshot", snap.ID, "nodes", snap.Nodes)
	return nil
}

func (s *session) close() error { return s.db.Close() }
