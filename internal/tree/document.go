package tree

import "fmt"

// Document owns the root of the live tree. The root is nil until the first
// import.
type Document struct {
	root *Node
}

// NewDocument wraps root, which may be nil.
func NewDocument(root *Node) *Document {
	d := &Document{}
	if root != nil {
		d.SetRoot(root)
	}
	return d
}

// Root returns the document root, or nil.
func (d *Document) Root() *Node { return d.root }

// SetRoot installs n as the root. The document must be empty and n detached.
func (d *Document) SetRoot(n *Node) {
	if d.root != nil {
		panic("tree: document already has a root")
	}
	if n.parent != nil {
		panic(fmt.Sprintf("tree: root candidate %s #%d is attached", n.kind, n.serial))
	}
	if n.kind != KindFile {
		panic(fmt.Sprintf("tree: document root must be a file, got %s", n.kind))
	}
	d.root = n
}

// TakeRoot transfers the root out of the document, leaving it empty.
func (d *Document) TakeRoot() *Node {
	r := d.root
	d.root = nil
	return r
}
