// Package cli is the command-line front end of the studio.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ZameerHP/clipscript/internal/app"
)

// Opener builds the application for a command that needs it.
type Opener func(ctx context.Context) (*app.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	open Opener
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the studio CLI.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "clipscript",
		Short: "ClipScript studio",
		Long:  "Write scripts, manage credits and keep a library of everything you generate.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewGoogleCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewPackagesCommand(opts))
	cmd.AddCommand(NewBuyCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewWAVCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// withApp opens the application, runs fn and closes it again.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.open == nil {
		return NewExitError(ExitCommandError, "application is not configured")
	}
	a, err := o.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open studio", err)
	}
	runErr := fn(ctx, a)
	if err := a.Close(); err != nil && runErr == nil {
		return WrapExitError(ExitCommandError, "failed to close studio", err)
	}
	return runErr
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are rendered in the requested format: JSON on stdout, text on stderr.
func Execute(ctx context.Context, open Opener, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(open)
	cmd.SetArgs(args)
	cmd.SetIn(os.Stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	format, _ := cmd.PersistentFlags().GetString("format")
	out := &OutputFormatter{Format: format, Writer: stderr}
	if format == "json" {
		out.Writer = stdout
	}
	_ = out.Error(err)
	return GetExitCode(err)
}
