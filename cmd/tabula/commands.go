package main

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/export"
	"github.com/ajitpratap0/tabula/pkg/handler"
	"github.com/ajitpratap0/tabula/pkg/table"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Rewrite a source file as CSV, JSON, Avro or Arrow, chunk by chunk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd)
		},
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "Destination file")
	f.String("output-format", "", "csv, json, avro or arrow (default from the output suffix)")
	f.String("output-delimiter", "", "CSV delimiter for the output (default: source delimiter)")
	f.String("compression", "", "none, gzip, zstd, snappy, s2 or lz4 (default from the output suffix)")
	f.String("level", "default", "Compression level: fastest, default, better or best")
	f.String("types", "", "Comma separated column types, skipping inference")
	f.Bool("ignore-errors", false, "Drop malformed records and leave bad cells unset")
	f.String("column", "", "Column caption or index used by --pattern")
	f.String("pattern", "", "Regular expression to replace in --column")
	f.String("replace", "", "Replacement for --pattern")
	f.Bool("quote-strings", false, "Wrap every string cell in double quotes")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Show the detected layout of a source and a sample of its rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd)
		},
	}
	cmd.Flags().Int("rows", 5, "Number of sample rows")
	cmd.Flags().String("types", "", "Comma separated column types, skipping inference")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [source]",
		Short: "Check a list of column types against the types detected in a source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(cmd)
		},
	}
	cmd.Flags().String("types", "", "Comma separated column types to check (required)")
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [source]",
		Short: "Print every row whose column matches a regular expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.find(cmd)
		},
	}
	cmd.Flags().String("column", "", "Column caption or index (required)")
	cmd.Flags().String("pattern", "", "Regular expression (required)")
	cmd.Flags().Bool("ignore-errors", false, "Drop malformed records and leave bad cells unset")
	return cmd
}

// newHandler opens a session on the configured source, applying --types
// when given.
func (a *app) newHandler() (*handler.Handler, error) {
	h, err := handler.New(a.cfg, handler.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if spec := a.v.GetString("types"); spec != "" {
		types, err := table.ParseDataTypes(strings.Split(spec, ","))
		if err != nil {
			return nil, err
		}
		h.ProvideTypesForColumns(types)
	}
	return h, nil
}

func (a *app) errorMode() handler.ErrorMode {
	if a.v.GetBool("ignore-errors") {
		return handler.IgnoreErrors
	}
	return handler.StopOnError
}

// resolveColumn accepts a caption or, failing that, a column index.
func resolveColumn(h *handler.Handler, column string) (int, error) {
	id, err := h.GetColumnID(column)
	if err == nil {
		return id, nil
	}
	if i, convErr := strconv.Atoi(column); convErr == nil {
		return i, nil
	}
	return 0, err
}

func (a *app) convert(cmd *cobra.Command) (err error) {
	ctx := cmd.Context()
	cfg := a.cfg
	if cfg.Output.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "--output is required")
	}
	column, pattern := a.v.GetString("column"), a.v.GetString("pattern")
	if pattern != "" && column == "" {
		return errors.New(errors.ErrorTypeConfig, "--pattern needs --column")
	}

	h, err := a.newHandler()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rows, replaced := 0, 0
	for {
		ok, err := h.LoadEntries(ctx, a.errorMode())
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if pattern != "" {
			col, err := resolveColumn(h, column)
			if err != nil {
				return err
			}
			n, err := h.ReplaceAll(col, pattern, a.v.GetString("replace"))
			if err != nil {
				return err
			}
			replaced += n
		}
		if a.v.GetBool("quote-strings") {
			if err := h.QuoteStringFields(); err != nil {
				return err
			}
		}
		if err := h.StoreDataInFile(ctx, cfg.Output.Path, cfg.Output.Format, cfg.OutputDelim()); err != nil {
			return err
		}
		rows += h.Rows()
	}

	a.log.Info("conversion finished",
		zap.String("output", cfg.Output.Path),
		zap.String("format", string(cfg.Output.Format)),
		zap.Int("rows", rows),
		zap.Int("replaced", replaced))
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", rows, cfg.Output.Path)
	return nil
}

// inspectReport is the JSON document printed by inspect.
type inspectReport struct {
	Source      string         `json:"source"`
	SessionID   string         `json:"session_id"`
	LoadMode    string         `json:"load_mode"`
	LineEnding  string         `json:"line_ending"`
	Header      []string       `json:"header,omitempty"`
	Types       []string       `json:"types"`
	Window      handler.Window `json:"window"`
	Rows        int            `json:"rows"`
	ArrowSchema string         `json:"arrow_schema"`
	Sample      [][]string     `json:"sample"`
}

func (a *app) inspect(cmd *cobra.Command) error {
	h, err := a.newHandler()
	if err != nil {
		return err
	}
	if _, err := h.LoadEntries(cmd.Context(), handler.IgnoreErrors); err != nil {
		return err
	}

	types := h.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	w := h.Window()
	report := inspectReport{
		Source:      a.cfg.Source,
		SessionID:   h.SessionID(),
		LoadMode:    string(h.LoadMode()),
		LineEnding:  h.LineEnding().String(),
		Header:      h.Header(),
		Types:       names,
		Window:      w,
		Rows:        h.Rows(),
		ArrowSchema: export.ArrowSchema(types, h.Header()).String(),
		Sample:      [][]string{},
	}
	limit := a.v.GetInt("rows")
	for row := w.Begin; row < w.End && len(report.Sample) < limit; row++ {
		fields, ok, err := h.GetRow(row)
		if err != nil {
			return err
		}
		if ok {
			report.Sample = append(report.Sample, fields)
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode report")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func (a *app) validate(cmd *cobra.Command) error {
	spec := a.v.GetString("types")
	if spec == "" {
		return errors.New(errors.ErrorTypeConfig, "--types is required")
	}
	types, err := table.ParseDataTypes(strings.Split(spec, ","))
	if err != nil {
		return err
	}
	h, err := handler.New(a.cfg, handler.WithLogger(a.log))
	if err != nil {
		return err
	}
	res, err := h.ValidateTypesForColumns(cmd.Context(), types)
	if err != nil {
		return err
	}
	if !res.Valid {
		fmt.Fprint(cmd.OutOrStdout(), res.Message)
		return errors.New(errors.ErrorTypeValidation, "column types do not match the source").
			WithDetail("provided", res.Provided).
			WithDetail("actual", res.Actual)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d column types match\n", res.Actual)
	return nil
}

func (a *app) find(cmd *cobra.Command) error {
	column, pattern := a.v.GetString("column"), a.v.GetString("pattern")
	if column == "" || pattern == "" {
		return errors.New(errors.ErrorTypeConfig, "--column and --pattern are required")
	}
	h, err := a.newHandler()
	if err != nil {
		return err
	}

	sep := string(a.cfg.Delim())
	out := cmd.OutOrStdout()
	matches := 0
	for {
		ok, err := h.LoadEntries(cmd.Context(), a.errorMode())
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		col, err := resolveColumn(h, column)
		if err != nil {
			return err
		}
		rows, err := h.FindRowIndices(col, pattern)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fields, _, err := h.GetRow(row)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(fields, sep))
			matches++
		}
	}
	a.log.Info("search finished", zap.String("pattern", pattern), zap.Int("matches", matches))
	return nil
}
