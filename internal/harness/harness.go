package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/rows"
)

// Harness runs scenarios.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for per-scenario diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New returns a Harness. By default logs are discarded.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Compile the clause; a syntax error ends the run
//  2. Validate against Fields when given
//  3. Evaluate every row with the map adapter, cross-checking the
//     protobuf and JSON adapters when the row holds only JSON scalars
//  4. Compare every outcome with its expectation
//
// The returned error is reserved for harness failures; assertion failures
// are recorded in the Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}
	result := NewResult()
	log := h.logger.With("scenario", scenario.Name)

	m, err := engine.Compile(scenario.Clause)
	if err != nil {
		var se *compiler.SyntaxError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("compile: %w", err)
		}
		result.SyntaxError = se.Message
		result.SyntaxPos = se.Pos
		log.Debug("clause rejected", "error", err)
		if aerr := assertSyntaxError(scenario, se); aerr != nil {
			result.AddError(aerr.Error())
		}
		return result, nil
	}
	if aerr := assertSyntaxError(scenario, nil); aerr != nil {
		result.AddError(aerr.Error())
		return result, nil
	}

	result.Program = m.Program().String()
	if result.Fingerprint, err = m.Fingerprint(); err != nil {
		return nil, err
	}

	if scenario.Fields != nil {
		var opts []engine.ValidateOption
		if scenario.CaseFold {
			opts = append(opts, engine.WithCaseFold())
		}
		unknown, err := m.Validate(scenario.Fields, opts...)
		if err != nil {
			result.AddError(fmt.Sprintf("validate: %v", err))
		} else {
			result.Validated = true
			result.Unknown = unknown
			if aerr := assertUnknown(scenario, unknown); aerr != nil {
				result.AddError(aerr.Error())
			}
		}
	}

	for i, rc := range scenario.Rows {
		outcome := evalRow(m, rows.NewMapRow(rc.Values))
		outcome.Index = i
		result.Rows = append(result.Rows, outcome)
		log.Debug("row evaluated", "row", i, "match", outcome.Match, "error", outcome.Error)

		if aerr := assertRow(scenario, i, rc, outcome); aerr != nil {
			result.AddError(aerr.Error())
		}
		if msg := crossCheck(m, i, rc.Values, outcome); msg != "" {
			result.AddError(msg)
		}
	}

	return result, nil
}

func evalRow(m *engine.Matcher, row engine.NamedValues) RowOutcome {
	match, err := m.Match(row)
	return RowOutcome{Match: match && err == nil, Error: errorKind(err)}
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case engine.IsTypeMismatch(err):
		return ErrorTypeMismatch
	case engine.IsInternal(err):
		return ErrorInternal
	}
	return err.Error()
}

// crossCheck evaluates the row through the protobuf and JSON adapters and
// reports any disagreement with the map adapter. Rows holding values
// neither adapter can represent are skipped.
func crossCheck(m *engine.Matcher, index int, values map[string]any, want RowOutcome) string {
	if !jsonScalars(values) {
		return ""
	}

	sr, err := rows.StructRowFromMap(values)
	if err != nil {
		return fmt.Sprintf("rows[%d]: struct adapter: %v", index, err)
	}
	if got := evalRow(m, sr); got.Match != want.Match || got.Error != want.Error {
		return fmt.Sprintf("rows[%d]: struct adapter gave %s, map adapter gave %s", index, describe(got), describe(want))
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Sprintf("rows[%d]: json adapter: %v", index, err)
	}
	jr, err := rows.ParseJSONRow(data)
	if err != nil {
		return fmt.Sprintf("rows[%d]: json adapter: %v", index, err)
	}
	if got := evalRow(m, jr); got.Match != want.Match || got.Error != want.Error {
		return fmt.Sprintf("rows[%d]: json adapter gave %s, map adapter gave %s", index, describe(got), describe(want))
	}
	return ""
}

func jsonScalars(values map[string]any) bool {
	for _, v := range values {
		switch v.(type) {
		case nil, bool, int, int64, float64, string:
		default:
			return false
		}
	}
	return true
}
