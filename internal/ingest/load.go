package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentic-research/trackedit/api"
	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goccy/go-json"
)

var (
	// ErrUnknownKind is returned for a node whose kind is not a document kind.
	ErrUnknownKind = errors.New("unknown node kind")
	// ErrBadNesting is returned when a node cannot hold a child of the given kind.
	ErrBadNesting = errors.New("invalid nesting")
)

// LoadFile reads one JSON document from fsys and returns its detached file
// node, ready for an import command.
func LoadFile(fsys billy.Filesystem, path string) (*tree.Node, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	file, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if file.Name() == "" {
		file.SetName(filepath.Base(path), false)
	}
	return file, nil
}

// LoadDir loads every .json document below dir, in path order.
func LoadDir(fsys billy.Filesystem, dir string) ([]*tree.Node, error) {
	var paths []string
	err := util.Walk(fsys, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(p), ".json") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	files := make([]*tree.Node, 0, len(paths))
	for _, p := range paths {
		file, err := LoadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// Load decodes a JSON document.
func Load(r io.Reader) (*tree.Node, error) {
	var doc api.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return Build(&doc)
}

// Build converts a decoded document into a detached file node.
func Build(doc *api.Document) (*tree.Node, error) {
	file := tree.New(tree.KindFile, doc.Name)
	if err := setMeta(file, doc.Meta); err != nil {
		return nil, err
	}
	for i := range doc.Nodes {
		if err := addNode(file, &doc.Nodes[i]); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func addNode(parent *tree.Node, in *api.Node) error {
	kind, ok := tree.ParseKind(in.Kind)
	if !ok || kind == tree.KindFile {
		return fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
	if !parent.Kind().Accepts(kind) {
		return fmt.Errorf("%w: %s cannot hold %s", ErrBadNesting, parent.Kind(), kind)
	}

	var n *tree.Node
	if kind.IsPoint() {
		n = tree.NewPoint(kind, in.Lat, in.Lon)
		if in.Name != "" {
			n.SetName(in.Name, true)
		}
	} else {
		n = tree.New(kind, in.Name)
	}
	if err := setMeta(n, in.Meta); err != nil {
		return err
	}
	parent.Append(n)

	for i := range in.Children {
		if err := addNode(n, &in.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func setMeta(n *tree.Node, m map[string]any) error {
	for name, v := range m {
		key := meta.Index(name)
		switch key {
		case meta.Time:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%s #%d: time must be a string, got %T", n.Kind(), n.Serial(), v)
			}
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return fmt.Errorf("%s #%d: %w", n.Kind(), n.Serial(), err)
			}
			v = ts
		case meta.Elevation:
			if _, ok := v.(float64); !ok {
				return fmt.Errorf("%s #%d: ele must be a number, got %T", n.Kind(), n.Serial(), v)
			}
		}
		n.Meta().Set(key, v)
	}
	return nil
}

// Export converts n and its subtree back into the interchange form. Serials
// are included so callers can map results back to live nodes.
func Export(n *tree.Node) api.Node {
	out := api.Node{
		Kind:   n.Kind().String(),
		Serial: n.Serial(),
	}
	if n.Explicit() {
		out.Name = n.Name()
	}
	if n.IsPoint() {
		out.Lat, out.Lon = n.Lat(), n.Lon()
	}
	out.Meta = exportMeta(n.Meta())
	for _, c := range n.Children() {
		out.Children = append(out.Children, Export(c))
	}
	return out
}

// ExportDocument converts a file node into a document.
func ExportDocument(file *tree.Node) *api.Document {
	doc := &api.Document{
		Version: api.Version,
		Name:    file.Name(),
		Meta:    exportMeta(file.Meta()),
	}
	for _, c := range file.Children() {
		doc.Nodes = append(doc.Nodes, Export(c))
	}
	return doc
}

func exportMeta(s *meta.Store) map[string]any {
	if s.Len() == 0 {
		return nil
	}
	out := make(map[string]any, s.Len())
	for _, k := range s.Keys() {
		v := s.Value(k)
		if ts, ok := v.(time.Time); ok {
			v = ts.UTC().Format(time.RFC3339Nano)
		}
		out[meta.NameOf(k)] = v
	}
	return out
}
