package main

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/imaitland/llrt/internal/config"
	"github.com/imaitland/llrt/internal/fs"
	"github.com/imaitland/llrt/internal/logging"
	"github.com/imaitland/llrt/internal/monitoring"
	"github.com/imaitland/llrt/internal/runtime"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel string
	dev      bool
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "llrt",
		Short: "Run JavaScript with a Node-compatible filesystem API",
		Long: `llrt executes CommonJS scripts on an embedded JavaScript engine.
Scripts reach the filesystem through require("fs") and require("fs/promises"),
which behave like their Node counterparts, including error codes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.dev, "dev", false, "development logging")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "script timeout, including pending async work")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newEvalCommand(opts))
	cmd.AddCommand(newInspectCommand(opts))

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "llrt version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// env is the wiring shared by the subcommands: config, logger, metrics
// and one filesystem engine reporting to both.
type env struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *monitoring.Metrics
	engine  *fs.Engine
}

func newEnv(opts *rootOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.dev {
		cfg.Logging.Development = true
	}
	if opts.timeout > 0 {
		cfg.Runtime.TimeoutMS = int(opts.timeout.Milliseconds())
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics := monitoring.NewMetrics()
	engine := fs.New(
		fs.WithLogger(log.Named("fs").Logger),
		fs.WithObserver(metrics),
		fs.WithFileMode(iofs.FileMode(cfg.FS.FileMode)),
		fs.WithDirMode(iofs.FileMode(cfg.FS.DirMode)),
	)

	return &env{cfg: cfg, log: log, metrics: metrics, engine: engine}, nil
}

func (e *env) runtimeOptions() []runtime.Option {
	return []runtime.Option{
		runtime.WithEngine(e.engine),
		runtime.WithLogger(e.log.Named("runtime").Logger),
		runtime.WithMetrics(e.metrics),
	}
}

func (e *env) close() {
	_ = e.log.Sync()
}

// printConsole replays captured console output; warnings and errors go to
// stderr.
func printConsole(stdout, stderr io.Writer, entries []runtime.LogEntry) {
	for _, entry := range entries {
		w := stdout
		if entry.Level == "warn" || entry.Level == "error" || entry.Level == "trace" {
			w = stderr
		}
		fmt.Fprintln(w, entry.Message)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
