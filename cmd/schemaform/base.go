package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/schema"
)

func newBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "base SCHEMA",
		Short: "Print the base (default-valued) document of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			res := schema.NewResolver(s)
			out, err := document.Canonical(res.BaseDocument(res.Root()))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
