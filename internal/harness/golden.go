package harness

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as text, one block per case:
//
//	-- case: <name>
//	<sql>
//	-- bindings: <json array>
//
// INSERT cases list every statement with its bindings. Failed builds render
// "-- error: <message>" instead.
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range result.Cases {
		buf.WriteString("-- case: " + c.Name + "\n")
		if c.Error != "" {
			buf.WriteString("-- error: " + c.Error + "\n")
			continue
		}
		for _, s := range c.Statements {
			bindings, err := FormatBindings(s.Bindings)
			if err != nil {
				return nil, err
			}
			buf.WriteString(s.SQL + "\n")
			buf.WriteString("-- bindings: " + bindings + "\n")
		}
	}
	return buf.Bytes(), nil
}

// FormatBindings renders bindings as a JSON array. HTML characters are not
// escaped.
func FormatBindings(bindings []any) (string, error) {
	if bindings == nil {
		bindings = []any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bindings); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check expectations. Test failure
// (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)

	return nil
}
