package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	for _, name := range opNames() {
		o := ops[name]
		rootCmd.AddCommand(&cobra.Command{
			Use:   o.usage,
			Short: o.short,
			Args:  cobra.MinimumNArgs(o.min),
			RunE:  runOnce(name),
		})
	}
}

// runOnce loads the document, applies one command and saves it.
func runOnce(verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, cfg.Database, cfg.CommandNaming(), logger)
		if err != nil {
			return err
		}
		defer func() { _ = s.close() }()

		c, err := buildOp(s, verb, args)
		if err != nil {
			return err
		}
		s.do(c)
		if err := s.save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Text())
		return nil
	}
}
