// Package query addresses document nodes with JSONPath expressions evaluated
// over a generic export of the tree.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/ohler55/ojg/jp"
)

var (
	// ErrNoMatch is returned when an expression selects no node.
	ErrNoMatch = errors.New("no matching node")
	// ErrAmbiguous is returned by One when more than one node matches.
	ErrAmbiguous = errors.New("expression matches more than one node")
)

// Export converts n and its subtree to maps and slices. Every node map
// carries "kind", "name", "explicit", "serial" and "children"; points add
// "lat" and "lon"; metadata appears under "meta" by key name.
func Export(n *tree.Node) map[string]any {
	out := map[string]any{
		"kind":     n.Kind().String(),
		"name":     n.Name(),
		"explicit": n.Explicit(),
		"serial":   int64(n.Serial()),
	}
	if n.IsPoint() {
		out["lat"] = n.Lat()
		out["lon"] = n.Lon()
	}
	if n.Meta().Len() > 0 {
		m := make(map[string]any, n.Meta().Len())
		for _, k := range n.Meta().Keys() {
			v := n.Meta().Value(k)
			if ts, ok := v.(time.Time); ok {
				v = ts.UTC().Format(time.RFC3339Nano)
			}
			m[meta.NameOf(k)] = v
		}
		out["meta"] = m
	}
	children := make([]any, n.ChildCount())
	for i, c := range n.Children() {
		children[i] = Export(c)
	}
	out["children"] = children
	return out
}

// Select evaluates expr against root and returns the matched nodes in the
// order the expression produced them, without duplicates. A "#<serial>"
// expression selects the node with that serial directly.
func Select(root *tree.Node, expr string) ([]*tree.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrNoMatch)
	}
	if s, ok := strings.CutPrefix(expr, "#"); ok {
		serial, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid serial '%s': %w", s, err)
		}
		n := tree.Find(root, uint32(serial))
		if n == nil {
			return nil, fmt.Errorf("%w: #%d", ErrNoMatch, serial)
		}
		return []*tree.Node{n}, nil
	}

	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}

	index := make(map[uint32]*tree.Node)
	tree.Walk(root, func(n *tree.Node) bool {
		index[n.Serial()] = n
		return true
	})

	var out []*tree.Node
	seen := make(map[uint32]bool)
	for _, r := range x.Get(Export(root)) {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		serial, ok := m["serial"].(int64)
		if !ok || seen[uint32(serial)] {
			continue
		}
		if n := index[uint32(serial)]; n != nil {
			seen[uint32(serial)] = true
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, expr)
	}
	return out, nil
}

// One is Select for expressions that must name exactly one node.
func One(root *tree.Node, expr string) (*tree.Node, error) {
	nodes, err := Select(root, expr)
	if err != nil {
		return nil, err
	}
	if len(nodes) > 1 {
		return nil, fmt.Errorf("%w: %s selects %d nodes", ErrAmbiguous, expr, len(nodes))
	}
	return nodes[0], nil
}

// Values evaluates expr and returns the raw results, for expressions that
// select attributes rather than nodes.
func Values(root *tree.Node, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	return x.Get(Export(root)), nil
}
