package view

import (
	"fmt"

	"github.com/agentic-research/trackedit/internal/tree"
)

// EventType identifies one notification.
type EventType int

const (
	EventBeginLayout EventType = iota
	EventEndLayout
	EventNodeChanged
	EventDocumentChanged
	EventSelect
	EventClearSelection
)

func (e EventType) String() string {
	switch e {
	case EventBeginLayout:
		return "begin"
	case EventEndLayout:
		return "end"
	case EventNodeChanged:
		return "changed"
	case EventDocumentChanged:
		return "document"
	case EventSelect:
		return "select"
	case EventClearSelection:
		return "clear"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Event is one recorded notification.
type Event struct {
	Type    EventType
	Serials []uint32
}

// Recorder keeps every notification in order and checks that layout brackets
// nest.
type Recorder struct {
	events []Event
	depth  int
	err    error
}

func (r *Recorder) add(t EventType, nodes ...*tree.Node) {
	ev := Event{Type: t}
	for _, n := range nodes {
		ev.Serials = append(ev.Serials, n.Serial())
	}
	r.events = append(r.events, ev)
}

func (r *Recorder) BeginLayoutChange() {
	r.depth++
	r.add(EventBeginLayout)
}

func (r *Recorder) EndLayoutChange() {
	r.depth--
	if r.depth < 0 && r.err == nil {
		r.err = fmt.Errorf("layout change ended without begin at event %d", len(r.events))
	}
	r.add(EventEndLayout)
}

func (r *Recorder) NodeChanged(n *tree.Node) { r.add(EventNodeChanged, n) }
func (r *Recorder) DocumentChanged() { r.add(EventDocumentChanged) }
func (r *Recorder) Select(nodes ...*tree.Node) { r.add(EventSelect, nodes...) }
func (r *Recorder) ClearSelection() { r.add(EventClearSelection) }

// Events returns the recorded notifications.
func (r *Recorder) Events() []Event { return r.events }

// Types returns only the event types, in order.
func (r *Recorder) Types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Err reports a bracket nesting violation, or an unclosed bracket.
func (r *Recorder) Err() error {
	if r.err != nil {
		return r.err
	}
	if r.depth != 0 {
		return fmt.Errorf("%d layout change(s) left open", r.depth)
	}
	return nil
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
	r.depth = 0
	r.err = nil
}
