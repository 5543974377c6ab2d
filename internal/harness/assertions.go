package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// checkExpectations compares a case result with its expectations and
// records every mismatch.
func checkExpectations(cr *CaseResult, expect Expect) {
	if expect.Error != "" || expect.ErrorKind != "" {
		checkError(cr, expect)
		return
	}

	if cr.err != nil {
		cr.AddFailure(fmt.Sprintf("unexpected error: %s", cr.Error))
		return
	}

	if len(expect.Statements) > 0 {
		if len(cr.Statements) != len(expect.Statements) {
			cr.AddFailure(fmt.Sprintf("expected %d statements, got %d",
				len(expect.Statements), len(cr.Statements)))
			return
		}
		for i, want := range expect.Statements {
			checkStatement(cr, fmt.Sprintf("statements[%d]", i), cr.Statements[i], want.SQL, want.Bindings)
		}
		return
	}

	actual := joinStatements(cr.Statements)
	checkStatement(cr, "statement", actual, expect.SQL, expect.Bindings)
}

func checkError(cr *CaseResult, expect Expect) {
	if cr.err == nil {
		cr.AddFailure(fmt.Sprintf("expected error %q, compilation succeeded", expect.Error))
		return
	}
	if expect.Error != "" && !strings.Contains(cr.Error, expect.Error) {
		cr.AddFailure(fmt.Sprintf("expected error containing %q, got %q", expect.Error, cr.Error))
	}
	if expect.ErrorKind != "" {
		if kind := ErrorKind(cr.err); kind != expect.ErrorKind {
			cr.AddFailure(fmt.Sprintf("expected error kind %s, got %s", expect.ErrorKind, kind))
		}
	}
}

func checkStatement(cr *CaseResult, label string, actual Statement, sql string, bindings []any) {
	if want := strings.TrimSpace(sql); want != strings.TrimSpace(actual.SQL) {
		cr.AddFailure(fmt.Sprintf("%s: SQL mismatch\n  expected: %s\n  actual:   %s", label, want, actual.SQL))
	}
	if bindings == nil {
		return
	}
	if !bindingsEqual(bindings, actual.Bindings) {
		cr.AddFailure(fmt.Sprintf("%s: bindings mismatch\n  expected: %v\n  actual:   %v", label, bindings, actual.Bindings))
	}
}

// joinStatements mirrors how Compile joins INSERT statements.
func joinStatements(statements []Statement) Statement {
	if len(statements) == 1 {
		return statements[0]
	}
	joined := Statement{Bindings: []any{}}
	sqls := make([]string, len(statements))
	for i, s := range statements {
		sqls[i] = s.SQL
		joined.Bindings = append(joined.Bindings, s.Bindings...)
	}
	joined.SQL = strings.Join(sqls, ";\n")
	return joined
}

func bindingsEqual(expected, actual []any) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if !valuesEqual(expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares binding values. Integers compare by value whatever
// their Go type; YAML decodes small integers as int.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if e, ok := toInt64(expected); ok {
		a, ok := toInt64(actual)
		return ok && e == a
	}
	return reflect.DeepEqual(expected, actual)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}
