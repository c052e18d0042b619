package command

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

type importMode int

const (
	importPending importMode = iota
	importAsRoot
	importAdopt
)

// Import brings a whole parsed file into the document. Into an empty
// document the file itself becomes the root; otherwise its children are
// appended to the existing root and the file node stays behind as an empty
// shell.
type Import struct {
	base
	file  *tree.Node
	held  reserve
	mode  importMode
	count int
}

// NewImport takes ownership of file, which must be a detached file node.
func NewImport(env *Env, file *tree.Node) (*Import, error) {
	if file == nil || file.Kind() != tree.KindFile || file.Parent() != nil {
		return nil, ErrNotFile
	}
	if env == nil || env.Doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrInvalidDestination)
	}
	if env.Doc.Root() == file {
		return nil, fmt.Errorf("%w: file is already the document root", ErrInvalidTarget)
	}
	c := &Import{
		base: base{env: env, text: fmt.Sprintf("Import %s", file.Name())},
		file: file,
	}
	c.held.stash(file)
	return c, nil
}

func (c *Import) Redo() {
	doc := c.env.Doc
	if c.mode == importPending {
		c.mode = importAdopt
		if doc.Root() == nil {
			c.mode = importAsRoot
		}
	}

	c.begin()
	switch c.mode {
	case importAsRoot:
		doc.SetRoot(c.held.take())
	case importAdopt:
		root := doc.Root()
		if root == nil {
			panic("command: import expected a document root")
		}
		c.count = c.file.ChildCount()
		for c.file.ChildCount() > 0 {
			root.Append(c.file.RemoveAt(0))
		}
	}
	c.end()
}

func (c *Import) Undo() {
	doc := c.env.Doc

	c.begin()
	switch c.mode {
	case importAsRoot:
		if doc.Root() != c.file {
			panic("command: imported file is no longer the document root")
		}
		c.held.stash(doc.TakeRoot())
	case importAdopt:
		root := doc.Root()
		start := root.ChildCount() - c.count
		for root.ChildCount() > start {
			c.file.Append(root.RemoveAt(start))
		}
	}
	c.end()
}
