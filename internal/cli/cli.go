package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/vesselbatch/internal/app"
	"github.com/vk/vesselbatch/internal/hcl"
	"github.com/vk/vesselbatch/internal/registry"
)

// Exit codes returned by Execute through ExitError.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitItemsFailed = 3
	ExitCancelled   = 130
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

type globalFlags struct {
	logLevel  string
	logFormat string
	prefsPath string
}

type runFlags struct {
	controlPort int
	resultsDir  string
	dryRun      bool
}

// Execute runs the command line in args. Errors come back as *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	return toExitError(err)
}

// NewRootCommand builds the vesselbatch command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "vesselbatch",
		Short: "Batch analysis of vasculature volumes and graphs",
		Long: `vesselbatch loads a batch of segmented volumes or vessel graphs from an HCL
manifest, checks that the batch is complete for its mode and analyzes the files
one at a time, reporting per-file status as it goes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format: text or json.")
	pf.StringVar(&g.prefsPath, "prefs", "", "Preferences file. Defaults to the user config directory.")

	root.AddCommand(newRunCommand(g), newValidateCommand(g), newSchemaCommand())
	return root
}

func newRunCommand(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run MANIFEST",
		Short: "Analyze every file of the batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, app.Config{
				ManifestPath: args[0],
				ControlPort:  f.controlPort,
				ResultsDir:   f.resultsDir,
				DryRun:       f.dryRun,
			})
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&f.controlPort, "control-port", 0, "Port for the HTTP control server. 0 is disabled.")
	cmd.Flags().StringVar(&f.resultsDir, "results-dir", "", "Results directory. Overrides the manifest and the saved preference.")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Only check that every input exists.")
	return cmd
}

func newValidateCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate MANIFEST",
		Short: "Load the batch and report whether it can run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, app.Config{ManifestPath: args[0]})
			if err != nil {
				return err
			}
			if err := a.Validate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Batch is ready to run.")
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print an annotated example manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), hcl.ExampleManifest)
			return err
		},
	}
}

func newApp(cmd *cobra.Command, g *globalFlags, cfg app.Config) (*app.App, error) {
	cfg.LogLevel = strings.ToLower(g.logLevel)
	cfg.LogFormat = strings.ToLower(g.logFormat)
	cfg.LogWriter = cmd.ErrOrStderr()
	cfg.PrefsPath = g.prefsPath

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("CLI parser finished successfully.", "config", config)

	return app.NewApp(cmd.OutOrStdout(), config, hcl.NewLoader())
}

// toExitError maps application errors to exit codes.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := ExitFailure
	switch {
	case errors.Is(err, app.ErrCancelled), errors.Is(err, context.Canceled):
		code = ExitCancelled
	case errors.Is(err, app.ErrItemsFailed), errors.Is(err, registry.ErrNotRunnable):
		code = ExitItemsFailed
	case isUsageError(err):
		code = ExitUsage
	}
	return &ExitError{Code: code, Message: err.Error()}
}

// isUsageError recognizes the argument and flag errors cobra returns as plain
// errors.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "invalid argument", "flag needs an argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
