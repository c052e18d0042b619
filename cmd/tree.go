package cmd

import (
	"fmt"
	"io"

	"github.com/agentic-research/trackedit/internal/query"
	"github.com/agentic-research/trackedit/internal/store"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	showMeta   bool
	showValues bool
)

func init() {
	treeCmd.Flags().BoolVarP(&showMeta, "meta", "m", false, "Show metadata attributes")
	queryCmd.Flags().BoolVar(&showValues, "values", false, "Print raw JSONPath results instead of nodes")
	rootCmd.AddCommand(treeCmd, queryCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Print the document outline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfg.Database, cfg.CommandNaming(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = s.close() }()
		return printTree(cmd.OutOrStdout(), s, args, showMeta)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <jsonpath>",
	Short: "List the nodes (or values) a JSONPath expression selects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfg.Database, cfg.CommandNaming(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = s.close() }()
		return printQuery(cmd.OutOrStdout(), s, args[0], showValues)
	},
}

func printTree(w io.Writer, s *session, args []string, withMeta bool) error {
	root := s.root()
	if root == nil {
		return store.ErrNoDocument
	}
	if len(args) > 0 {
		n, err := query.One(root, args[0])
		if err != nil {
			return err
		}
		root = n
	}
	return tree.Dump(w, root, tree.DumpOptions{Serials: true, Meta: withMeta})
}

func printQuery(w io.Writer, s *session, expr string, values bool) error {
	if s.root() == nil {
		return store.ErrNoDocument
	}
	if values {
		vals, err := query.Values(s.root(), expr)
		if err != nil {
			return err
		}
		for _, v := range vals {
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		}
		return nil
	}
	nodes, err := query.Select(s.root(), expr)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "#%d\t%s\t%s\n", n.Serial(), n.Kind(), n.Name())
	}
	return nil
}
