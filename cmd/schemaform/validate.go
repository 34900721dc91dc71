package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate SCHEMA",
		Short: "Validate a data document and print its errors",
		Long: `Validate a data document against a schema. The command fails when at least
one field or group error is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd, args[0], false)
			if err != nil {
				return err
			}
			res := e.ValidateAll()
			if res.Valid() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"path", "code", "message"})
			for _, is := range res.Issues() {
				t.AppendRow(table.Row{is.Path, is.Code, is.Message})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return res.Err()
		},
	}
	cmd.Flags().String(flagData, "", "data document or persisted envelope (JSON)")
	return cmd
}
