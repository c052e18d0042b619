// Package command implements the undoable edits of a track document.
//
// Every command is fully configured by its constructor, which validates the
// request and returns an error instead of a command when the edit cannot be
// applied. Redo and Undo never fail: a broken invariant inside them is an
// engine bug and panics.
//
// A command keeps plain references only to nodes it edits in place or moves
// from one live position to another. Any subtree the command detaches from the
// document, or builds before attaching it, is owned by one of the command's
// orphan holders (tree.NewHolder) while it is out of the document.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/agentic-research/trackedit/internal/view"
)

// Command is one reversible edit.
type Command interface {
	// Redo applies the edit. It is called once per do, never twice in a row.
	Redo()
	// Undo reverses the most recent Redo exactly.
	Undo()
	// Text is a short label for history menus.
	Text() string
}

// Naming holds the names given to nodes the engine creates.
type Naming struct {
	SplitSpaced  string // appended to names containing whitespace
	SplitCompact string // appended to names without whitespace
	Track        string
	Route        string
	Segment      string
	Folder       string
}

// DefaultNaming returns the built-in names.
func DefaultNaming() Naming {
	return Naming{
		SplitSpaced:  " (split)",
		SplitCompact: "_split",
		Track:        "Track",
		Route:        "Route",
		Segment:      "Segment",
		Folder:       "Folder",
	}
}

func (n Naming) withDefaults() Naming {
	d := DefaultNaming()
	if n.SplitSpaced == "" {
		n.SplitSpaced = d.SplitSpaced
	}
	if n.SplitCompact == "" {
		n.SplitCompact = d.SplitCompact
	}
	if n.Track == "" {
		n.Track = d.Track
	}
	if n.Route == "" {
		n.Route = d.Route
	}
	if n.Segment == "" {
		n.Segment = d.Segment
	}
	if n.Folder == "" {
		n.Folder = d.Folder
	}
	return n
}

// SplitName derives the name of the second half of a split container.
func (n Naming) SplitName(name string) string {
	n = n.withDefaults()
	if strings.ContainsAny(name, " \t\n") {
		return name + n.SplitSpaced
	}
	return name + n.SplitCompact
}

// DefaultName returns the placeholder name for a new container of kind k.
func (n Naming) DefaultName(k tree.Kind) string {
	n = n.withDefaults()
	switch k {
	case tree.KindTrack:
		return n.Track
	case tree.KindRoute:
		return n.Route
	case tree.KindSegment:
		return n.Segment
	case tree.KindFolder:
		return n.Folder
	}
	return ""
}

// Env is the editor state commands operate on.
type Env struct {
	Doc    *tree.Document
	View   view.Notifier
	Naming Naming
}

func (e *Env) notifier() view.Notifier {
	if e == nil || e.View == nil {
		return view.Nop{}
	}
	return e.View
}

func (e *Env) naming() Naming {
	if e == nil {
		return DefaultNaming()
	}
	return e.Naming.withDefaults()
}

type base struct {
	env  *Env
	text string
}

func (b *base) Text() string { return b.text }

// begin opens a structural edit.
func (b *base) begin() { b.env.notifier().BeginLayoutChange() }

// end closes a structural edit and leaves sel selected (or nothing).
func (b *base) end(sel ...*tree.Node) {
	v := b.env.notifier()
	v.EndLayoutChange()
	b.settle(sel...)
}

// changed reports in-place edits of nodes.
func (b *base) changed(nodes ...*tree.Node) {
	v := b.env.notifier()
	for _, n := range nodes {
		v.NodeChanged(n)
	}
	b.settle(nodes...)
}

func (b *base) settle(sel ...*tree.Node) {
	v := b.env.notifier()
	if len(sel) == 0 {
		v.ClearSelection()
	} else {
		v.Select(sel...)
	}
	v.DocumentChanged()
}

// reserveState tracks a lazily built subtree.
type reserveState int

const (
	unbuilt reserveState = iota
	held
	attached
)

// reserve owns one subtree that is built on first redo and then alternates
// between the holder (after undo) and the document (after redo).
type reserve struct {
	holder *tree.Node
	node   *tree.Node
	state  reserveState
}

func (r *reserve) built() bool { return r.state != unbuilt }

// stash parks n in the holder. The holder must be empty.
func (r *reserve) stash(n *tree.Node) {
	if r.holder == nil {
		r.holder = tree.NewHolder()
	}
	if c := r.holder.ChildCount(); c != 0 {
		panic(fmt.Sprintf("command: holder has %d children, want 0", c))
	}
	r.holder.Append(n)
	r.node = n
	r.state = held
}

// take removes the held subtree so it can be attached.
func (r *reserve) take() *tree.Node {
	if r.state != held || r.holder.ChildCount() != 1 {
		panic(fmt.Sprintf("command: reserve in state %d is not holding exactly one subtree", r.state))
	}
	r.state = attached
	return r.holder.RemoveAt(0)
}

// slot is a remembered position of a node in the live tree.
type slot struct {
	node   *tree.Node
	parent *tree.Node
	row    int
}

func recordSlots(nodes []*tree.Node) []slot {
	slots := make([]slot, len(nodes))
	for i, n := range nodes {
		slots[i] = slot{node: n, parent: n.Parent(), row: n.Index()}
	}
	return slots
}

// byRow returns slot indexes ordered by recorded row. Detaching in reverse of
// this order keeps every smaller recorded row valid; reattaching in this order
// rebuilds every larger recorded row.
func byRow(slots []slot) []int {
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return slots[order[a]].row < slots[order[b]].row })
	return order
}

// detachSlots removes every slot's node from its recorded position and returns
// the nodes in the order they were removed.
func detachSlots(slots []slot) []*tree.Node {
	order := byRow(slots)
	out := make([]*tree.Node, 0, len(slots))
	for i := len(order) - 1; i >= 0; i-- {
		s := slots[order[i]]
		if got := s.parent.Child(s.row); got != s.node {
			panic(fmt.Sprintf("command: row %d of %s #%d holds #%d, want #%d",
				s.row, s.parent.Kind(), s.parent.Serial(), got.Serial(), s.node.Serial()))
		}
		out = append(out, s.parent.RemoveAt(s.row))
	}
	return out
}

// attachSlots puts every slot's node back at its recorded position.
func attachSlots(slots []slot) {
	for _, i := range byRow(slots) {
		s := slots[i]
		s.parent.Insert(s.row, s.node)
	}
}

// checkTargets rejects empty, detached, duplicated or nested node lists.
func checkTargets(nodes []*tree.Node) error {
	if len(nodes) == 0 {
		return ErrEmptySelection
	}
	seen := make(map[*tree.Node]bool, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Parent() == nil {
			return fmt.Errorf("%w: node is not attached to a parent", ErrInvalidTarget)
		}
		if seen[n] {
			return fmt.Errorf("%w: %s #%d listed twice", ErrInvalidTarget, n.Kind(), n.Serial())
		}
		seen[n] = true
	}
	for _, n := range nodes {
		for p := n.Parent(); p != nil; p = p.Parent() {
			if seen[p] {
				return fmt.Errorf("%w: %s #%d is inside another target", ErrInvalidTarget, n.Kind(), n.Serial())
			}
		}
	}
	return nil
}
