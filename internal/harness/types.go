package harness

import (
	"github.com/roach88/scribe/internal/query"
)

// Statement is a compiled SQL statement with its bindings.
type Statement struct {
	SQL      string `json:"sql"`
	Bindings []any  `json:"bindings"`
}

func statementsFrom(raws []query.Raw) []Statement {
	out := make([]Statement, len(raws))
	for i, r := range raws {
		bindings := r.Bindings
		if bindings == nil {
			bindings = []any{}
		}
		out[i] = Statement{SQL: r.SQL, Bindings: bindings}
	}
	return out
}

// CaseResult is the outcome of one scenario case.
type CaseResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// Statements holds the compiled statements, empty when compilation
	// failed.
	Statements []Statement `json:"statements,omitempty"`

	// Error is the build or compile error message, if any.
	Error string `json:"error,omitempty"`

	// Failures lists the unmet expectations.
	Failures []string `json:"failures,omitempty"`

	err error
}

// Err returns the build or compile error of the case.
func (c *CaseResult) Err() error {
	return c.err
}

// AddFailure records an unmet expectation and marks the case failed.
func (c *CaseResult) AddFailure(msg string) {
	c.Failures = append(c.Failures, msg)
	c.Pass = false
}

// Result is the outcome of a scenario.
type Result struct {
	Scenario string       `json:"scenario"`
	Pass     bool         `json:"pass"`
	Cases    []CaseResult `json:"cases"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Cases:    []CaseResult{},
	}
}

// Add appends a case result, failing the scenario if the case failed.
func (r *Result) Add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	if !c.Pass {
		r.Pass = false
	}
}

// Failed returns the failed cases.
func (r *Result) Failed() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if !c.Pass {
			failed = append(failed, c)
		}
	}
	return failed
}
