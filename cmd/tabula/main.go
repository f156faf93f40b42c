package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/observability"
)

var version = "0.1.0"

// app carries the state shared by every command.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      *zap.Logger
	shutdown observability.ShutdownFunc
	fromFile bool
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("TABULA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "tabula",
		Short: "Tabula - chunked CSV and JSON ingestion into typed tables",
		Long: `Tabula reads CSV or JSON files of any size in fixed-size chunks, infers or
validates column types, and rewrites the data as CSV, JSON or Avro.

Every flag can also be set through a TABULA_ environment variable, for example
TABULA_CHUNK_SIZE=1048576, or through a YAML file passed with --config.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return a.setup(cmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML configuration file")
	pf.String("source", "", "Source file (may also be given as the first argument)")
	pf.String("format", "", "Source format: csv or json (default from the file suffix)")
	pf.String("delimiter", ",", "CSV field delimiter")
	pf.String("header-mode", string(config.HeaderInclude), "First line handling: include, skip or none")
	pf.String("load-mode", string(config.LoadAuto), "whole_file, chunked or auto")
	pf.Int64("chunk-size", config.DefaultChunkSize, "Bytes read per chunk in chunked mode")
	pf.String("reader", string(config.ReaderFile), "Chunk reader backend: file or mmap")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-encoding", "console", "Log encoding: console or json")
	pf.Bool("metrics", false, "Print ingestion metrics to stderr when done")
	pf.Bool("trace", false, "Export tracing spans to stderr")

	root.AddCommand(
		newVersionCmd(),
		newConvertCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newFindCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// version needs no source
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tabula v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// setup builds the session config and initializes logging and tracing.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := a.buildConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Encoding:    cfg.Observability.LogEncoding,
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return err
	}
	cmd.SetContext(logger.ContextWith(cmd.Context(), logger.CommandKey, cmd.Name()))
	a.log = logger.WithContext(cmd.Context()).With(zap.String("component", "tabula-cli"))

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultConfig(version)
		tc.Writer = cmd.ErrOrStderr()
		if a.shutdown, err = observability.InitTracing(tc); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.cfg != nil && a.cfg.Observability.EnableMetrics {
		if err := printMetrics(cmd); err != nil {
			a.log.Warn("failed to gather metrics", zap.Error(err))
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}

// buildConfig layers the YAML file, TABULA_ environment variables and
// flags over the defaults. Flags and environment win over the file.
func (a *app) buildConfig(args []string) (*config.Config, error) {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
		a.fromFile = true
	}
	fromFile := a.fromFile

	set := func(key string, apply func()) {
		if a.v.IsSet(key) {
			apply()
		}
	}
	set("source", func() { cfg.Source = a.v.GetString("source") })
	if len(args) > 0 {
		cfg.Source = args[0]
	}
	set("format", func() { cfg.Format = config.Format(a.v.GetString("format")) })
	if !fromFile && !a.v.IsSet("format") && sourceFormat(cfg.Source) == config.FormatJSON {
		cfg.Format = config.FormatJSON
	}
	set("delimiter", func() { cfg.Delimiter = a.v.GetString("delimiter") })
	set("header-mode", func() { cfg.HeaderMode = config.HeaderMode(a.v.GetString("header-mode")) })
	if !fromFile || a.v.IsSet("load-mode") {
		cfg.LoadMode = config.LoadMode(a.v.GetString("load-mode"))
	}
	set("chunk-size", func() { cfg.ChunkSize = a.v.GetInt64("chunk-size") })
	set("reader", func() { cfg.Reader = config.ReaderKind(a.v.GetString("reader")) })
	if !fromFile || a.v.IsSet("log-level") {
		cfg.Observability.LogLevel = a.v.GetString("log-level")
	}
	if !fromFile || a.v.IsSet("log-encoding") {
		cfg.Observability.LogEncoding = a.v.GetString("log-encoding")
	}
	set("metrics", func() { cfg.Observability.EnableMetrics = a.v.GetBool("metrics") })
	set("trace", func() { cfg.Observability.EnableTracing = a.v.GetBool("trace") })

	set("output", func() { cfg.Output.Path = a.v.GetString("output") })
	set("output-format", func() { cfg.Output.Format = config.Format(a.v.GetString("output-format")) })
	if !fromFile && !a.v.IsSet("output-format") && cfg.Output.Path != "" {
		cfg.Output.Format = sourceFormat(cfg.Output.Path)
	}
	set("output-delimiter", func() { cfg.Output.Delimiter = a.v.GetString("output-delimiter") })
	set("compression", func() { cfg.Output.Compression = a.v.GetString("compression") })
	set("level", func() { cfg.Output.Level = a.v.GetString("level") })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sourceFormat guesses a data format from a path, looking through any
// compression suffix.
func sourceFormat(path string) config.Format {
	switch strings.ToLower(filepath.Ext(compression.StripSuffix(path))) {
	case ".json":
		return config.FormatJSON
	case ".avro":
		return config.FormatAvro
	case ".arrow", ".ipc":
		return config.FormatArrow
	default:
		return config.FormatCSV
	}
}

func printMetrics(cmd *cobra.Command) error {
	samples, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	w := cmd.ErrOrStderr()
	for _, s := range samples {
		labels := make([]string, 0, len(s.Labels))
		for k, v := range s.Labels {
			labels = append(labels, k+"="+v)
		}
		sort.Strings(labels)
		fmt.Fprintf(w, "%s{%s} %g\n", s.Name, strings.Join(labels, ","), s.Value)
	}
	return nil
}
