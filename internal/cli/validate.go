package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Clause   string   `json:"clause"`
	Known    []string `json:"known"`
	CaseFold bool     `json:"case_fold"`
	Unknown  []string `json:"unknown"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <clause>",
		Short: "Check the field names a clause references",
		Long: `Check that every field name referenced by a clause is known.

Known names come from --fields, SIEVE_KNOWN_FIELDS or known_fields in the
config file. Names match exactly unless --case-fold is given.

Exit codes:
  0 - All names known
  1 - Unknown names, or the clause cannot be evaluated
  2 - Command error (syntax error, no known fields, etc.)

Examples:
  sieve validate "QTY > 2 AND sku = 'a'" --fields QTY,SKU
  sieve validate "QTY > 2 AND sku = 'a'" --fields QTY,SKU --case-fold`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	// Values are read back through the resolved config.
	cmd.Flags().StringSlice("fields", nil, "known field names (comma separated)")
	cmd.Flags().Bool("case-fold", false, "match field names without regard to case")

	return cmd
}

func runValidate(opts *RootOptions, clause string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	known := opts.KnownFields
	if known == nil {
		// Called without the root command; read the flags directly.
		known, _ = cmd.Flags().GetStringSlice("fields")
		if fold, _ := cmd.Flags().GetBool("case-fold"); fold {
			opts.CaseFold = true
		}
	}
	if len(known) == 0 {
		_ = formatter.Error(ErrCodeUsage, "no known fields: pass --fields or set known_fields", nil)
		return reportedError(ExitCommandError, "no known fields", nil)
	}

	m, err := engine.Compile(clause)
	if err != nil {
		return compileError(formatter, clause, err)
	}

	var vopts []engine.ValidateOption
	if opts.CaseFold {
		vopts = append(vopts, engine.WithCaseFold())
	}
	formatter.VerboseLog("Validating %q against %d known field(s)", clause, len(known))

	unknown, err := m.Validate(known, vopts...)
	if err != nil {
		var evalErr *engine.EvalError
		if errors.As(err, &evalErr) {
			return evalError(formatter, evalErr.Message, evalErr, err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return reportedError(ExitFailure, ErrCodeGeneric, err)
	}
	if unknown == nil {
		unknown = []string{}
	}

	result := &ValidationResult{
		Valid:    len(unknown) == 0,
		Clause:   clause,
		Known:    known,
		CaseFold: opts.CaseFold,
		Unknown:  unknown,
	}

	if !result.Valid {
		message := engine.FormatUnknown(unknown)
		if formatter.Format == "json" {
			_ = formatter.Failure(ErrCodeUnknownField, message, result)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", message)
		}
		return reportedError(ExitFailure, message, nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, "✓ All field names known")
	return nil
}
