package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/reoring/schemaform"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/render"
	"github.com/reoring/schemaform/validate"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render SCHEMA",
		Short: "Print the presentation tree after applying commands",
		Long: `Print the presentation tree of a form. Commands are applied in this order:
every --activate, every --add, every --set.`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
	cmd.Flags().String(flagData, "", "data document or persisted envelope (JSON)")
	cmd.Flags().StringArray("activate", nil, "activate an optional path (repeatable)")
	cmd.Flags().StringArray("add", nil, "append a default item to the list at path (repeatable)")
	cmd.Flags().StringArray("set", nil, "set a field, path=value (repeatable)")
	cmd.Flags().Bool("all-groups", false, "render optional groups without activation")
	cmd.Flags().StringP("output", "o", "tree", "output format (tree, outline, envelope)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	allGroups, _ := cmd.Flags().GetBool("all-groups")
	e, err := newEngine(cmd, args[0], allGroups)
	if err != nil {
		return err
	}
	if err := applyCommands(cmd, e); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format, _ := cmd.Flags().GetString("output"); format {
	case "tree":
		return renderTree(out, e.Tree(), e.Result())
	case "outline":
		_, err := fmt.Fprintln(out, strings.Join(e.Tree().Outline(), "\n"))
		return err
	case "envelope":
		b, err := e.Export()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func applyCommands(cmd *cobra.Command, e *schemaform.Engine) error {
	logger := slogcontext.FromCtx(cmd.Context())
	activate, _ := cmd.Flags().GetStringArray("activate")
	for _, raw := range activate {
		p, err := fieldpath.Parse(raw)
		if err != nil {
			return err
		}
		if err := e.ActivateOptional(p); err != nil {
			return err
		}
	}
	add, _ := cmd.Flags().GetStringArray("add")
	for _, raw := range add {
		p, err := fieldpath.Parse(raw)
		if err != nil {
			return err
		}
		if err := e.AddArrayItem(p); err != nil {
			return err
		}
	}
	set, _ := cmd.Flags().GetStringArray("set")
	for _, kv := range set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: want path=value", kv)
		}
		p, err := fieldpath.Parse(k)
		if err != nil {
			return err
		}
		if err := e.SetFieldValue(p, v); err != nil {
			return err
		}
	}
	logger.Debug("applied commands", "activate", len(activate), "add", len(add), "set", len(set))
	return nil
}

func renderTree(w io.Writer, tree *render.Tree, res *validate.Result) error {
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	counts := res.GroupCounts(tree.FieldGroup)
	depth := 0
	tree.Walk(func(n *render.Node, d int) bool {
		for depth < d {
			lw.Indent()
			depth++
		}
		for depth > d {
			lw.UnIndent()
			depth--
		}
		lw.AppendItem(describe(n, res, counts))
		return true
	})
	lw.SetOutputMirror(w)
	lw.Render()
	return nil
}

func describe(n *render.Node, res *validate.Result, counts map[string]int) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s [%s] %s", n.Title, n.Kind, n.ID)
	switch n.Kind {
	case render.KindField:
		fmt.Fprintf(b, " (%s) = %v", n.Control.Kind, n.Control.Value)
		if is, ok := res.Fields[n.Path.Pointer()]; ok {
			fmt.Fprintf(b, "  ! %s", is.Message)
		}
	case render.KindBody:
		if total := res.Total(); total > 0 {
			fmt.Fprintf(b, "  %d error(s)", total)
		}
	default:
		if c := counts[n.ID]; c > 0 {
			fmt.Fprintf(b, "  %d error(s)", c)
		}
	}
	if n.Required {
		b.WriteString(" *")
	}
	return b.String()
}
