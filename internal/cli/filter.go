package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/rows"
	"github.com/roach88/sieve/internal/store"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Input string // row file (.json, .jsonl, .yaml, .cue, optionally .gz/.zst)
	DB    string // SQLite database path
	Table string // table or view to scan
	Count bool   // print only the number of matching rows
}

// FilterResult holds the outcome of filtering a row source.
type FilterResult struct {
	Matched int              `json:"matched"`
	Total   int              `json:"total"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <clause>",
		Short: "Print the rows a clause matches",
		Long: `Evaluate a clause against every row of a file or SQLite table and
print the rows that match, one JSON object per line.

Rows are read from --input, or from --table of the read-only database
given by --db. Field names are matched without regard to case.

Exit codes:
  0 - At least one row matched
  1 - No row matched, or a row could not be evaluated
  2 - Command error (syntax error, missing input, etc.)

Examples:
  sieve filter "QTY > 2" --input orders.jsonl
  sieve filter "STATUS IN ('open', 'held')" --db shop.db --table orders --count`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "row file")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table or view to scan (with --db)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the number of matching rows")

	return cmd
}

// rowFilter evaluates rows one at a time and keeps the matches.
type rowFilter struct {
	m      *engine.Matcher
	keep   bool
	result FilterResult
}

func (f *rowFilter) add(row *rows.MapRow) error {
	index := f.result.Total
	f.result.Total++

	ok, err := f.m.Match(row)
	if err != nil {
		return fmt.Errorf("row %d: %w", index, err)
	}
	if !ok {
		return nil
	}
	f.result.Matched++
	if f.keep {
		f.result.Rows = append(f.result.Rows, row.Map())
	}
	return nil
}

func runFilter(opts *FilterOptions, clause string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	switch {
	case opts.Input == "" && opts.DB == "":
		return usageError(formatter, "one of --input or --db is required")
	case opts.Input != "" && opts.DB != "":
		return usageError(formatter, "--input and --db are mutually exclusive")
	case opts.DB != "" && opts.Table == "":
		return usageError(formatter, "--db requires --table")
	case opts.Input != "" && opts.Table != "":
		return usageError(formatter, "--table requires --db")
	}

	m, err := engine.Compile(clause)
	if err != nil {
		return compileError(formatter, clause, err)
	}

	f := &rowFilter{m: m, keep: !opts.Count}
	if opts.Input != "" {
		err = filterFile(f, opts.Input)
	} else {
		err = filterTable(cmd, f, opts.DB, opts.Table)
	}
	if err != nil {
		return sourceError(formatter, err)
	}

	formatter.VerboseLog("%d of %d row(s) matched", f.result.Matched, f.result.Total)

	if formatter.Format == "json" {
		if err := formatter.Success(f.result); err != nil {
			return err
		}
	} else if err := writeMatches(formatter, opts.Count, f.result); err != nil {
		return err
	}

	if f.result.Matched == 0 {
		return reportedError(ExitFailure, ErrCodeNoMatch+": no rows matched", nil)
	}
	return nil
}

func filterFile(f *rowFilter, path string) error {
	loaded, err := rows.Load(path)
	if err != nil {
		return err
	}
	for _, row := range loaded {
		if err := f.add(row); err != nil {
			return err
		}
	}
	return nil
}

func filterTable(cmd *cobra.Command, f *rowFilter, path, table string) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Debug("scanning table", "db", st.Path(), "table", table)
	return st.Scan(cmd.Context(), table, f.add)
}

func writeMatches(formatter *OutputFormatter, count bool, result FilterResult) error {
	w := formatter.Writer
	if count {
		fmt.Fprintln(w, result.Matched)
		return nil
	}
	for _, row := range result.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func usageError(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeUsage, message, nil)
	return reportedError(ExitCommandError, message, nil)
}

// sourceError maps a failure while reading or evaluating rows to a
// response code and exit code.
func sourceError(formatter *OutputFormatter, err error) error {
	var (
		evalErr *engine.EvalError
		loadErr *rows.LoadError
	)
	switch {
	case errors.As(err, &evalErr):
		return evalError(formatter, err.Error(), evalErr, err)
	case errors.As(err, &loadErr):
		_ = formatter.Error(loadErr.Code, err.Error(), nil)
		return reportedError(ExitCommandError, loadErr.Code, err)
	case errors.Is(err, fs.ErrNotExist):
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return reportedError(ExitCommandError, ErrCodeNotFound, err)
	}
	_ = formatter.Error(ErrCodeStore, err.Error(), nil)
	return reportedError(ExitCommandError, ErrCodeStore, err)
}
