package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
)

// CompilationResult describes a compiled clause.
type CompilationResult struct {
	Clause      string   `json:"clause"`
	Cells       []string `json:"cells"`
	Fields      []string `json:"fields"`
	Fingerprint string   `json:"fingerprint"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <clause>",
		Short: "Compile a clause and print its program",
		Long: `Compile a filter clause and print the resulting program, one cell
per line, together with the fields it references and its fingerprint.

Clauses that differ only in whitespace or keyword case share a
fingerprint.

Examples:
  sieve compile "QTY > 2 AND SKU IN ('a', 'b')"
  sieve compile "NAME IS NOT NULL" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCompile(opts *RootOptions, clause string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := engine.Compile(clause)
	if err != nil {
		return compileError(formatter, clause, err)
	}

	fingerprint, err := m.Fingerprint()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return reportedError(ExitCommandError, "fingerprint", err)
	}

	prog := m.Program()
	result := &CompilationResult{
		Clause:      clause,
		Cells:       make([]string, prog.Len()),
		Fields:      m.Fields(),
		Fingerprint: fingerprint,
	}
	for i := range result.Cells {
		result.Cells[i] = prog.At(i).String()
	}
	if result.Fields == nil {
		result.Fields = []string{}
	}

	formatter.VerboseLog("Compiled %q to %d cell(s)", clause, prog.Len())

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d cell(s)\n\n", prog.Len())
	fmt.Fprint(w, prog.String())
	fmt.Fprintln(w)
	if len(result.Fields) > 0 {
		fmt.Fprintf(w, "Fields: %s\n", strings.Join(result.Fields, ", "))
	} else {
		fmt.Fprintln(w, "Fields: (none)")
	}
	fmt.Fprintf(w, "Fingerprint: %s\n", fingerprint)
	return nil
}
