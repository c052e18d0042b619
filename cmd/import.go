package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentic-research/trackedit/internal/command"
	"github.com/agentic-research/trackedit/internal/ingest"
	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file|dir]...",
	Short: "Import JSON track documents into the database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cfg.Database, cfg.CommandNaming(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = s.close() }()

		c, err := importCommand(s, args)
		if err != nil {
			return err
		}
		s.do(c)
		if err := s.save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s into %s\n", c.Text(), cfg.Database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importCommand loads every path and wraps one import per file.
func importCommand(s *session, paths []string) (command.Command, error) {
	var files []*tree.Node
	for _, p := range paths {
		loaded, err := loadPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, loaded...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .json documents in %v", paths)
	}

	var children []command.Command
	for _, f := range files {
		c, err := command.NewImport(s.env, f)
		if err != nil {
			return nil, err
		}
		s.log.Debug("file loaded", "name", f.Name(), "nodes", f.ChildCount())
		children = append(children, c)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return command.NewSequence(s.env, fmt.Sprintf("Import %d files", len(children)), children...), nil
}

func loadPath(p string) ([]*tree.Node, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ingest.LoadDir(osfs.New(abs), ".")
	}
	f, err := ingest.LoadFile(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	return []*tree.Node{f}, nil
}
