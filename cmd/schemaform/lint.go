package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint SCHEMA",
		Short: "Report unsupported keywords and meta-schema violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warnings := append(s.Diag().Warnings(), s.Lint().Warnings()...)
			if len(warnings) == 0 {
				_, err := fmt.Fprintln(out, "ok")
				return err
			}
			for _, w := range warnings {
				if _, err := fmt.Fprintf(out, "warning: %s\n", w); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
