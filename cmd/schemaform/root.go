package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/reoring/schemaform"
	"github.com/reoring/schemaform/schema"
)

const (
	flagLogLevel  = "loglevel"
	flagLogFormat = "logformat"
	flagLanguage  = "lang"
	flagData      = "data"
)

// New returns the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemaform [sub-command]",
		Short: "Render and validate JSON Schema driven forms",
		Long: `schemaform builds the presentation tree of a form from a JSON or YAML
schema and an optional data document, applies structural commands to it,
and reports validation errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setupLogger,
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().String(flagLogLevel, "warn", "set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(flagLogFormat, "text", "set the log format (text, json)")
	cmd.PersistentFlags().String(flagLanguage, "en", "language of validation messages (en, ja)")

	cmd.AddCommand(newBaseCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newLintCmd())
	return cmd
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := logLevel(cmd)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format, _ := cmd.Flags().GetString(flagLogFormat); format {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}
	cmd.SetContext(slogcontext.NewCtx(cmd.Context(), slog.New(handler)))
	return nil
}

func logLevel(cmd *cobra.Command) (slog.Level, error) {
	switch lvl, _ := cmd.Flags().GetString(flagLogLevel); lvl {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", lvl)
	}
}

func loadSchema(path string) (*schema.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := schema.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

func loadData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, _, err := schemaform.ReadDocument(b)
	if err != nil {
		return nil, fmt.Errorf("data %s: %w", path, err)
	}
	return data, nil
}

// newEngine loads the schema argument and the --data file and builds an
// engine with the command's logger.
func newEngine(cmd *cobra.Command, schemaPath string, allGroups bool) (*schemaform.Engine, error) {
	s, err := loadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	dataPath, _ := cmd.Flags().GetString(flagData)
	data, err := loadData(dataPath)
	if err != nil {
		return nil, err
	}
	lang, _ := cmd.Flags().GetString(flagLanguage)
	return schemaform.New(schemaform.NopMount{}, s, data, schemaform.Options{
		RenderAllGroups: allGroups,
		Logger:          slogcontext.FromCtx(cmd.Context()),
		Language:        lang,
	})
}
