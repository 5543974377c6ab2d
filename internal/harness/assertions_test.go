package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(nil, nil))
	assert.False(t, valuesEqual(nil, 0))
	assert.False(t, valuesEqual("a", nil))
	assert.True(t, valuesEqual(10, int64(10)))
	assert.True(t, valuesEqual(int64(3), uint8(3)))
	assert.False(t, valuesEqual(3, "3"))
	assert.False(t, valuesEqual(3, 3.0))
	assert.True(t, valuesEqual(1.5, 1.5))
	assert.True(t, valuesEqual("x", "x"))
	assert.True(t, valuesEqual(true, true))
}

func TestBindingsEqual(t *testing.T) {
	assert.True(t, bindingsEqual([]any{}, nil))
	assert.True(t, bindingsEqual([]any{1, "a", nil}, []any{int64(1), "a", nil}))
	assert.False(t, bindingsEqual([]any{1}, []any{1, 2}))
}

func TestJoinStatements(t *testing.T) {
	single := Statement{SQL: "A", Bindings: []any{1}}
	assert.Equal(t, single, joinStatements([]Statement{single}))

	joined := joinStatements([]Statement{
		{SQL: "A", Bindings: []any{1}},
		{SQL: "B", Bindings: []any{}},
		{SQL: "C", Bindings: []any{2}},
	})
	assert.Equal(t, "A;\nB;\nC", joined.SQL)
	assert.Equal(t, []any{1, 2}, joined.Bindings)
}

func TestCheckExpectations_SQLIgnoresSurroundingWhitespace(t *testing.T) {
	cr := CaseResult{Pass: true, Statements: []Statement{{SQL: "SELECT 1", Bindings: []any{}}}}
	checkExpectations(&cr, Expect{SQL: "SELECT 1\n"})
	assert.True(t, cr.Pass)
	assert.Empty(t, cr.Failures)
}

func TestCheckExpectations_ErrorMessage(t *testing.T) {
	cr := CaseResult{Pass: true, Error: "boom happened", err: assert.AnError}
	checkExpectations(&cr, Expect{Error: "kaboom"})
	assert.False(t, cr.Pass)
	assert.Equal(t, []string{`expected error containing "kaboom", got "boom happened"`}, cr.Failures)
}
