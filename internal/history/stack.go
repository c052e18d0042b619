// Package history keeps the undo/redo stack of executed commands.
package history

import (
	"log/slog"

	"github.com/agentic-research/trackedit/internal/command"
)

// Stack is a linear undo history. Commands below the index are done; commands
// at or above it have been undone and can be redone until the next Push.
type Stack struct {
	cmds  []command.Command
	index int
	clean int // -1 once the clean state has been dropped
	log   *slog.Logger
}

// New returns an empty stack that is clean. A nil logger uses slog.Default().
func New(log *slog.Logger) *Stack {
	if log == nil {
		log = slog.Default()
	}
	return &Stack{log: log}
}

// Push runs c and records it. Any undone commands are discarded.
func (s *Stack) Push(c command.Command) {
	c.Redo()
	if s.index < len(s.cmds) {
		for i := s.index; i < len(s.cmds); i++ {
			s.cmds[i] = nil
		}
		s.cmds = s.cmds[:s.index]
		if s.clean > s.index {
			s.clean = -1
		}
	}
	s.cmds = append(s.cmds, c)
	s.index++
	s.log.Debug("history push", "text", c.Text(), "index", s.index)
}

// Undo reverses the last done command. It reports false when there is none.
func (s *Stack) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.index--
	c := s.cmds[s.index]
	c.Undo()
	s.log.Debug("history undo", "text", c.Text(), "index", s.index)
	return true
}

// Redo re-applies the last undone command. It reports false when there is
// none.
func (s *Stack) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	c := s.cmds[s.index]
	c.Redo()
	s.index++
	s.log.Debug("history redo", "text", c.Text(), "index", s.index)
	return true
}

func (s *Stack) CanUndo() bool { return s.index > 0 }
func (s *Stack) CanRedo() bool { return s.index < len(s.cmds) }

// UndoText is the label of the command Undo would reverse, or "".
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return s.cmds[s.index-1].Text()
}

// RedoText is the label of the command Redo would apply, or "".
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return s.cmds[s.index].Text()
}

// SetClean marks the current index as the saved state.
func (s *Stack) SetClean() { s.clean = s.index }

// IsClean reports whether the document matches the last saved state.
func (s *Stack) IsClean() bool { return s.clean == s.index }

// Index is the number of done commands.
func (s *Stack) Index() int { return s.index }

// Len is the number of recorded commands, done or undone.
func (s *Stack) Len() int { return len(s.cmds) }

// Clear drops every command and marks the empty stack clean. The commands
// are released along with any subtrees their holders keep.
func (s *Stack) Clear() {
	s.cmds = nil
	s.index = 0
	s.clean = 0
	s.log.Debug("history cleared")
}
