package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sieve/internal/ir"
)

// Snapshot renders the observable outcome of a scenario as canonical JSON.
// Assertion messages are not part of the snapshot; a snapshot records what
// happened, not what was expected.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snap := map[string]any{
		"scenario_name": scenario.Name,
		"clause":        scenario.Clause,
	}

	if result.SyntaxError != "" {
		snap["syntax_error"] = map[string]any{
			"message": result.SyntaxError,
			"pos":     result.SyntaxPos,
		}
		return ir.MarshalCanonical(snap)
	}

	snap["program"] = result.Program
	snap["fingerprint"] = result.Fingerprint

	if result.Validated {
		unknown := make([]any, len(result.Unknown))
		for i, name := range result.Unknown {
			unknown[i] = name
		}
		snap["unknown"] = unknown
	}

	outcomes := make([]any, len(result.Rows))
	for i, o := range result.Rows {
		entry := map[string]any{"index": o.Index}
		if o.Error != "" {
			entry["error"] = o.Error
		} else {
			entry["match"] = o.Match
		}
		outcomes[i] = entry
	}
	snap["rows"] = outcomes

	return ir.MarshalCanonical(snap)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check result.Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an already executed scenario with
// its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
