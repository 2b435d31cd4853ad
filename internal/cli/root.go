package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/ir"
)

// RootOptions holds global flags for all commands, resolved against the
// environment and config file before any command runs.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigFile  string
	CaseFold    bool
	KnownFields []string

	// RunID identifies one invocation in JSON responses and logs.
	RunID string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sieve CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "sieve - filter rows with SQL-style WHERE clauses",
		Long: `Compile WHERE-style filter clauses to flat programs and evaluate
them against rows from JSON, YAML, CUE or SQLite sources.`,
		Version:       ir.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default .sieve.yaml)")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve layers flags over env and config file, checks the format and
// installs the process logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := LoadConfig(cmd.Flags(), o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration", err)
	}

	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.CaseFold = cfg.CaseFold
	o.KnownFields = cfg.KnownFields

	// Validate format flag
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	o.RunID = uuid.NewString()
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), o.Verbose).With("run_id", o.RunID))
	return nil
}

// newLogger returns a text logger on w at Info level, or Debug when
// verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
