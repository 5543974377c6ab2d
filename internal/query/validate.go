package query

import (
	"database/sql/driver"
	"time"
)

// Accepted type names reported by InvalidArgumentError.
const (
	typeString   = "string"
	typeInt      = "int"
	typeScalar   = "scalar"
	typeNil      = "nil"
	typeQuery    = "*query.Query"
	typeRaw      = "query.Raw"
	typeClosure  = "closure"
	typeSequence = "[]any"
)

// isScalar reports whether v can be bound as a statement parameter.
func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string, []byte, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, driver.Valuer:
		return true
	default:
		return false
	}
}

// isInt reports whether v is an integer.
func isInt(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// subqueryValue resolves a *Query, Raw or callback. ok is false for any
// other value.
func (q *Query) subqueryValue(v any) (e Expr, ok bool, err error) {
	switch val := v.(type) {
	case *Query:
		if val == nil {
			return nil, false, nil
		}
		if err := val.Err(); err != nil {
			return nil, true, err
		}
		return val, true, nil
	case Raw:
		return val, true, nil
	}
	if fn, isClosure := AsClosure(v); isClosure {
		sub, err := q.resolver.ResolveSubQuery(q, fn)
		if err != nil {
			return nil, true, err
		}
		return sub, true, nil
	}
	return nil, false, nil
}

// checkStringValue accepts a column or table name, a subquery or Raw.
func (q *Query) checkStringValue(param string, v any) (Expr, error) {
	if s, ok := v.(string); ok {
		return Identifier(s), nil
	}
	if id, ok := v.(Identifier); ok {
		return id, nil
	}
	e, ok, err := q.subqueryValue(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &InvalidArgumentError{
			Param:    param,
			Value:    v,
			Expected: []string{typeString, typeQuery, typeRaw, typeClosure},
		}
	}
	return e, nil
}

// checkScalarOrNullValue accepts a bindable scalar, a subquery or Raw.
func (q *Query) checkScalarOrNullValue(param string, v any) (Expr, error) {
	e, ok, err := q.subqueryValue(v)
	if err != nil {
		return nil, err
	}
	if ok {
		return e, nil
	}
	if p, isParam := v.(Param); isParam {
		return p, nil
	}
	if isScalar(v) {
		return Param{Value: v}, nil
	}
	return nil, &InvalidArgumentError{
		Param:    param,
		Value:    v,
		Expected: []string{typeScalar, typeNil, typeQuery, typeRaw, typeClosure},
	}
}

// checkIntOrNullValue accepts an integer, nil, a subquery or Raw. Nil is
// returned as a nil Expr.
func (q *Query) checkIntOrNullValue(param string, v any) (Expr, error) {
	if v == nil {
		return nil, nil
	}
	if isInt(v) {
		return Param{Value: v}, nil
	}
	e, ok, err := q.subqueryValue(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &InvalidArgumentError{
			Param:    param,
			Value:    v,
			Expected: []string{typeInt, typeNil, typeQuery, typeRaw, typeClosure},
		}
	}
	return e, nil
}

// checkSubQueryValue accepts a subquery, Raw or callback only.
func (q *Query) checkSubQueryValue(param string, v any) (Expr, error) {
	e, ok, err := q.subqueryValue(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &InvalidArgumentError{
			Param:    param,
			Value:    v,
			Expected: []string{typeQuery, typeRaw, typeClosure},
		}
	}
	return e, nil
}

// checkScalarList accepts a slice of scalars, subqueries or Raw values.
func (q *Query) checkScalarList(param string, v any) ([]Expr, error) {
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	case []int:
		for _, n := range list {
			items = append(items, n)
		}
	case []int64:
		for _, n := range list {
			items = append(items, n)
		}
	default:
		return nil, &InvalidArgumentError{
			Param:    param,
			Value:    v,
			Expected: []string{typeSequence, typeQuery, typeRaw, typeClosure},
		}
	}
	out := make([]Expr, 0, len(items))
	for _, item := range items {
		e, err := q.checkScalarOrNullValue(param+"[]", item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
