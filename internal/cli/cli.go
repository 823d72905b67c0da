package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/codephy/internal/app"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int
	listen     string
	output     string

	url       string
	namespace string
	timeout   time.Duration
	policy    string
	insecure  bool
}

// Execute runs the command line in args. Command output goes to outW, logs
// and help for usage errors go to errW. Failures are returned as *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra itself rejects is a usage error.
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCommand builds the codephy command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "codephy",
		Short: "Compile declarative phylogenetic models into inference-engine object graphs",
		Long: `codephy validates a phylogenetic model document (JSON, YAML or HCL),
builds its dependency graph, type-checks it and lowers it into engine
objects grouped into prior, likelihood and posterior.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers for checking and lowering.")

	root.AddCommand(
		validateCommand(opts, outW, errW),
		compileCommand(opts, outW, errW),
		partitionCommand(opts, outW, errW),
		serveCommand(opts, outW, errW),
		watchCommand(opts, outW, errW),
		emitCommand(opts, outW, errW),
	)
	return root
}

// newApp loads the configuration file and applies the flags the user set.
func newApp(cmd *cobra.Command, opts *options, outW, errW io.Writer) (*app.App, error) {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(opts.logFormat)
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Listen = opts.listen
	}
	if flags.Lookup("url") != nil {
		if flags.Changed("url") {
			cfg.Remote.URL = opts.url
		}
		if flags.Changed("namespace") {
			cfg.Remote.Namespace = opts.namespace
		}
		if flags.Changed("timeout") {
			cfg.Remote.Timeout = opts.timeout
		}
		if flags.Changed("policy") {
			cfg.Remote.Policy = opts.policy
		}
		if flags.Changed("insecure-skip-verify") {
			cfg.Remote.InsecureSkipVerify = opts.insecure
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return app.NewApp(outW, errW, cfg), nil
}

// run wraps an app operation so that its failure exits with ExitFailure.
func run(opts *options, outW, errW io.Writer, fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, opts, outW, errW)
		if err != nil {
			return err
		}
		if err := fn(cmd, a, args); err != nil {
			return &ExitError{Code: ExitFailure, Message: err.Error()}
		}
		return nil
	}
}

func addOutputFlag(cmd *cobra.Command, opts *options, def string) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", def, "Output format. Options: 'text', 'json' or 'yaml'.")
}

func checkOutput(format string) error {
	switch format {
	case app.FormatText, app.FormatJSON, app.FormatYAML:
		return nil
	}
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid output format %q: must be 'text', 'json' or 'yaml'", format)}
}

func validateCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH",
		Short: "Build and check a model file, or every model file in a directory, without lowering",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, args []string) error {
			return a.Validate(cmd.Context(), args[0])
		}),
	}
}

func compileCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Lower a model and print the partition, assembly and engine objects",
		Args:  cobra.ExactArgs(1),
	}
	addOutputFlag(cmd, opts, app.FormatJSON)
	cmd.PreRunE = func(*cobra.Command, []string) error { return checkOutput(opts.output) }
	cmd.RunE = run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, args []string) error {
		return a.Compile(cmd.Context(), args[0], opts.output)
	})
	return cmd
}

func partitionCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition FILE",
		Short: "Print the latent, observed and derived node sets of a model",
		Args:  cobra.ExactArgs(1),
	}
	addOutputFlag(cmd, opts, app.FormatText)
	cmd.PreRunE = func(*cobra.Command, []string) error { return checkOutput(opts.output) }
	cmd.RunE = run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, args []string) error {
		return a.Partition(cmd.Context(), args[0], opts.output)
	})
	return cmd
}

func serveCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation and compilation over HTTP",
		Args:  cobra.NoArgs,
		RunE: run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, _ []string) error {
			return a.Serve(cmd.Context())
		}),
	}
	cmd.Flags().StringVar(&opts.listen, "listen", ":8080", "Address the HTTP server listens on.")
	return cmd
}

func watchCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-validate a model every time the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, args []string) error {
			return a.Watch(cmd.Context(), args[0])
		}),
	}
}

func emitCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit FILE",
		Short: "Stream the lowering of a model to a remote socket.io engine",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, outW, errW, func(cmd *cobra.Command, a *app.App, args []string) error {
			return a.Emit(cmd.Context(), args[0])
		}),
	}
	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "URL of the socket.io engine, e.g. http://localhost:3000/socket.io/.")
	f.StringVar(&opts.namespace, "namespace", "/", "socket.io namespace.")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Time allowed for the connection handshake.")
	f.StringVar(&opts.policy, "policy", "", "Constraint policy announced to the engine: 'zero-density', 'reject-proposal' or 'ignore'.")
	f.BoolVar(&opts.insecure, "insecure-skip-verify", false, "Skip TLS certificate verification.")
	return cmd
}
