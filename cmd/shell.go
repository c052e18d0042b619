package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit the document interactively with undo and redo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cfg.Database, cfg.CommandNaming(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = s.close() }()
		return runShell(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

var errQuit = errors.New("quit")

// runShell executes one command per input line until quit or end of input.
func runShell(ctx context.Context, s *session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	prompt := func() { fmt.Fprint(out, "> ") }
	prompt()
	for sc.Scan() {
		args, err := splitLine(sc.Text())
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			prompt()
			continue
		}
		if len(args) > 0 {
			err := shellLine(ctx, s, out, args[0], args[1:])
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
		prompt()
	}
	return sc.Err()
}

func shellLine(ctx context.Context, s *session, out io.Writer, verb string, args []string) error {
	switch verb {
	case "quit", "exit":
		if !s.history.IsClean() {
			return errors.New("unsaved changes: save first or use quit!")
		}
		return errQuit
	case "quit!":
		return errQuit
	case "save":
		return s.save(ctx)
	case "undo":
		text := s.history.UndoText()
		if !s.history.Undo() {
			return fmt.Errorf("nothing to undo")
		}
		fmt.Fprintln(out, "undid", text)
		return nil
	case "redo":
		text := s.history.RedoText()
		if !s.history.Redo() {
			return fmt.Errorf("nothing to redo")
		}
		fmt.Fprintln(out, "redid", text)
		return nil
	case "history":
		fmt.Fprintf(out, "%d of %d done, clean=%t, undo=%q, redo=%q\n",
			s.history.Index(), s.history.Len(), s.history.IsClean(), s.history.UndoText(), s.history.RedoText())
		return nil
	case "selection":
		if s.root() == nil {
			return nil
		}
		for _, n := range s.sel.Resolve(s.root()) {
			fmt.Fprintf(out, "#%d\t%s\t%s\n", n.Serial(), n.Kind(), n.Name())
		}
		return nil
	case "tree":
		return printTree(out, s, args, false)
	case "query":
		if len(args) != 1 {
			return fmt.Errorf("%w: query <jsonpath>", errUsage)
		}
		return printQuery(out, s, args[0], false)
	case "import":
		if len(args) == 0 {
			return fmt.Errorf("%w: import <file|dir>...", errUsage)
		}
		c, err := importCommand(s, args)
		if err != nil {
			return err
		}
		s.do(c)
		fmt.Fprintln(out, c.Text())
		return nil
	case "help":
		fmt.Fprintln(out, "tree [path], query <path>, import <file>..., undo, redo, history, selection, save, quit")
		for _, name := range opNames() {
			fmt.Fprintln(out, ops[name].usage)
		}
		return nil
	}

	c, err := buildOp(s, verb, args)
	if err != nil {
		return err
	}
	s.do(c)
	fmt.Fprintln(out, c.Text())
	return nil
}

// splitLine splits a shell line on whitespace. A single or double quote at
// the start of a word groups up to the matching quote; quotes elsewhere are
// literal, so JSONPath filters can be written as "$..[?(@.name == 'x')]".
func splitLine(line string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case (r == '"' || r == '\'') && !inTok:
			quote, inTok = r, true
		case r == ' ' || r == '\t':
			if inTok {
				out = append(out, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inTok {
		out = append(out, cur.String())
	}
	return out, nil
}
