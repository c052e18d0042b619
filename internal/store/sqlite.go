// Package store persists a document as a snapshot in a SQLite database.
//
// A database holds one document. Save replaces the previous snapshot inside a
// single transaction; Load rebuilds a detached file node from it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// ErrNoDocument is returned by Load when the database holds no snapshot.
var ErrNoDocument = errors.New("no document stored")

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	nodes INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	parent_id TEXT,
	ord INTEGER NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	explicit INTEGER NOT NULL,
	lat REAL,
	lon REAL,
	meta JSON
);
CREATE INDEX IF NOT EXISTS idx_parent_ord ON nodes(parent_id, ord);
`

// Store is an open snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Snapshot describes the stored document.
type Snapshot struct {
	ID    string
	Name  string
	Nodes int
	Saved time.Time
}

// Save replaces the stored document with file and its subtree.
func (s *Store) Save(ctx context.Context, file *tree.Node) (Snapshot, error) {
	if file == nil {
		return Snapshot{}, ErrNoDocument
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes; DELETE FROM snapshot;"); err != nil {
		return Snapshot{}, fmt.Errorf("clear snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, parent_id, ord, kind, name, explicit, lat, lon, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	var write func(n *tree.Node, parentID *string, ord int) error
	write = func(n *tree.Node, parentID *string, ord int) error {
		id := ulid.Make().String()
		var lat, lon *float64
		if n.IsPoint() {
			la, lo := n.Lat(), n.Lon()
			lat, lon = &la, &lo
		}
		record, err := encodeMeta(n.Meta())
		if err != nil {
			return fmt.Errorf("%s #%d: %w", n.Kind(), n.Serial(), err)
		}
		if _, err := stmt.ExecContext(ctx, id, parentID, ord, n.Kind().String(), n.Name(), n.Explicit(), lat, lon, record); err != nil {
			return fmt.Errorf("insert %s #%d: %w", n.Kind(), n.Serial(), err)
		}
		count++
		for i, c := range n.Children() {
			if err := write(c, &id, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(file, nil, 0); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{ID: ulid.Make().String(), Name: file.Name(), Nodes: count}
	if _, err := tx.ExecContext(ctx, "INSERT INTO snapshot (id, name, nodes) VALUES (?, ?, ?)", snap.ID, snap.Name, snap.Nodes); err != nil {
		return Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, err
	}
	snap.Saved = savedAt(snap.ID)
	return snap, nil
}

// Info describes the stored snapshot.
func (s *Store) Info(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx, "SELECT id, name, nodes FROM snapshot LIMIT 1").Scan(&snap.ID, &snap.Name, &snap.Nodes)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoDocument
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.Saved = savedAt(snap.ID)
	return snap, nil
}

func savedAt(id string) time.Time {
	u, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}

type row struct {
	id       string
	parentID sql.NullString
	kind     string
	name     string
	explicit bool
	lat, lon sql.NullFloat64
	meta     sql.NullString
}

// Load rebuilds the stored document as a detached file node. Nodes get fresh
// serials.
func (s *Store) Load(ctx context.Context) (*tree.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, kind, name, explicit, lat, lon, meta
		FROM nodes ORDER BY parent_id, ord
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var root *row
	children := make(map[string][]*row)
	for rows.Next() {
		r := &row{}
		if err := rows.Scan(&r.id, &r.parentID, &r.kind, &r.name, &r.explicit, &r.lat, &r.lon, &r.meta); err != nil {
			return nil, err
		}
		if !r.parentID.Valid {
			root = r
			continue
		}
		children[r.parentID.String] = append(children[r.parentID.String], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNoDocument
	}

	var build func(r *row) (*tree.Node, error)
	build = func(r *row) (*tree.Node, error) {
		kind, ok := tree.ParseKind(r.kind)
		if !ok {
			return nil, fmt.Errorf("row %s: unknown kind %q", r.id, r.kind)
		}
		var n *tree.Node
		if kind.IsPoint() {
			n = tree.NewPoint(kind, r.lat.Float64, r.lon.Float64)
		} else {
			n = tree.New(kind, "")
		}
		n.SetName(r.name, r.explicit)
		if r.meta.Valid {
			if err := decodeMeta(n.Meta(), r.meta.String); err != nil {
				return nil, fmt.Errorf("row %s: %w", r.id, err)
			}
		}
		for _, c := range children[r.id] {
			if kc, _ := tree.ParseKind(c.kind); !kind.Accepts(kc) {
				return nil, fmt.Errorf("row %s: %s cannot hold %s", r.id, kind, c.kind)
			}
			cn, err := build(c)
			if err != nil {
				return nil, err
			}
			n.Append(cn)
		}
		return n, nil
	}
	file, err := build(root)
	if err != nil {
		return nil, err
	}
	if file.Kind() != tree.KindFile {
		return nil, fmt.Errorf("stored root is a %s, want file", file.Kind())
	}
	return file, nil
}
