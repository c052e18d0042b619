// Package view defines the notifications the command engine sends to the
// presentation layer, plus a few in-process implementations.
package view

import (
	"log/slog"

	"github.com/agentic-research/trackedit/internal/tree"
)

// Notifier receives structural and selection notifications. Calls are
// synchronous and ordered; BeginLayoutChange/EndLayoutChange pairs nest
// around every structural edit.
type Notifier interface {
	BeginLayoutChange()
	EndLayoutChange()
	NodeChanged(n *tree.Node)
	DocumentChanged()
	Select(nodes ...*tree.Node)
	ClearSelection()
}

// Nop discards every notification.
type Nop struct{}

func (Nop) BeginLayoutChange() {}
func (Nop) EndLayoutChange() {}
func (Nop) NodeChanged(*tree.Node) {}
func (Nop) DocumentChanged() {}
func (Nop) Select(...*tree.Node) {}
func (Nop) ClearSelection() {}

// Multi fans notifications out to several notifiers in order.
type Multi []Notifier

func (m Multi) BeginLayoutChange() {
	for _, n := range m {
		n.BeginLayoutChange()
	}
}

func (m Multi) EndLayoutChange() {
	for _, n := range m {
		n.EndLayoutChange()
	}
}

func (m Multi) NodeChanged(node *tree.Node) {
	for _, n := range m {
		n.NodeChanged(node)
	}
}

func (m Multi) DocumentChanged() {
	for _, n := range m {
		n.DocumentChanged()
	}
}

func (m Multi) Select(nodes ...*tree.Node) {
	for _, n := range m {
		n.Select(nodes...)
	}
}

func (m Multi) ClearSelection() {
	for _, n := range m {
		n.ClearSelection()
	}
}

// Logger writes every notification to a slog.Logger at debug level.
type Logger struct {
	Log *slog.Logger
}

func (l Logger) logger() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}

func (l Logger) BeginLayoutChange() { l.logger().Debug("layout change begin") }
func (l Logger) EndLayoutChange() { l.logger().Debug("layout change end") }
func (l Logger) DocumentChanged() { l.logger().Debug("document changed") }
func (l Logger) ClearSelection() { l.logger().Debug("selection cleared") }

func (l Logger) NodeChanged(n *tree.Node) {
	l.logger().Debug("node changed", "kind", n.Kind().String(), "serial", n.Serial())
}

func (l Logger) Select(nodes ...*tree.Node) {
	serials := make([]uint32, len(nodes))
	for i, n := range nodes {
		serials[i] = n.Serial()
	}
	l.logger().Debug("select", "serials", serials)
}
