package tree

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Equal reports whether a and b are structurally identical: same kinds,
// names, explicit flags, positions, metadata and child order. Serials are
// ignored, so a clone is Equal to its source.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.name != b.name || a.explicit != b.explicit {
		return false
	}
	if a.kind.IsPoint() && (a.lat != b.lat || a.lon != b.lon) {
		return false
	}
	if !a.meta.Equal(&b.meta) || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// DumpOptions controls Dump output.
type DumpOptions struct {
	Serials bool // include node serials (identity, not just structure)
	Meta    bool // include metadata attributes
}

// Dump writes an indented outline of n, one node per line.
func Dump(w io.Writer, n *Node, opts DumpOptions) error {
	return dump(w, n, 0, opts)
}

// Outline returns Dump output with serials and metadata, the form used to
// compare a tree before and after a command round trip.
func Outline(n *Node) string {
	var b strings.Builder
	_ = Dump(&b, n, DumpOptions{Serials: true, Meta: true})
	return b.String()
}

func dump(w io.Writer, n *Node, depth int, opts DumpOptions) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.kind.String())
	if opts.Serials {
		fmt.Fprintf(&b, " #%d", n.serial)
	}
	if n.name != "" {
		if n.explicit {
			fmt.Fprintf(&b, " %q", n.name)
		} else {
			fmt.Fprintf(&b, " (%s)", n.name)
		}
	}
	if n.kind.IsPoint() {
		fmt.Fprintf(&b, " [%.6f %.6f]", n.lat, n.lon)
	}
	if opts.Meta && n.meta.Len() > 0 {
		m := n.meta.Map()
		names := make([]string, 0, len(m))
		for k := range m {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(&b, " %s=%s", k, formatValue(m[k]))
		}
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := dump(w, c, depth+1, opts); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

// CopyPoint returns a new point of the same kind, position and metadata as p.
// The copy carries no name and no children.
func CopyPoint(p *Node) *Node {
	c := NewPoint(p.kind, p.lat, p.lon)
	c.meta = p.meta.Clone()
	return c
}

// CopyShell returns an empty node of the same kind as n with a copy of its
// metadata, named name.
func CopyShell(n *Node, name string) *Node {
	c := New(n.kind, name)
	c.meta = n.meta.Clone()
	return c
}
