package query

import (
	"fmt"
	"sort"
)

// From sets the target table without an alias. See SetTable.
func (q *Query) From(table any) *Query {
	return q.SetTable(table, "")
}

// SetTable sets the target table: a name, *Query, Raw or subquery callback.
// The alias may be empty.
func (q *Query) SetTable(table any, alias string) *Query {
	if q.err != nil {
		return q
	}
	t, err := q.checkStringValue("table", table)
	if err != nil {
		return q.fail(err)
	}
	q.Table = t
	q.TableAlias = alias
	return q
}

// AddSelect appends unaliased columns to the select list. Each column is a
// name, *Query, Raw or subquery callback.
func (q *Query) AddSelect(columns ...any) *Query {
	for i, column := range columns {
		if q.err != nil {
			return q
		}
		c, err := q.checkStringValue(fmt.Sprintf("columns[%d]", i), column)
		if err != nil {
			return q.fail(err)
		}
		q.Selects = append(q.Selects, SelectItem{Expr: c})
	}
	return q
}

// AddSelectAs appends an aliased column to the select list.
func (q *Query) AddSelectAs(column any, alias string) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	q.Selects = append(q.Selects, SelectItem{Alias: alias, Expr: c})
	return q
}

// AddCount appends COUNT(column). A nil or "*" column counts rows.
func (q *Query) AddCount(column any, alias string) *Query {
	return q.addAggregate(Count, column, alias)
}

// AddAvg appends AVG(column).
func (q *Query) AddAvg(column any, alias string) *Query {
	return q.addAggregate(Avg, column, alias)
}

// AddSum appends SUM(column).
func (q *Query) AddSum(column any, alias string) *Query {
	return q.addAggregate(Sum, column, alias)
}

// AddMin appends MIN(column).
func (q *Query) AddMin(column any, alias string) *Query {
	return q.addAggregate(Min, column, alias)
}

// AddMax appends MAX(column).
func (q *Query) AddMax(column any, alias string) *Query {
	return q.addAggregate(Max, column, alias)
}

func (q *Query) addAggregate(fn AggregateFunc, column any, alias string) *Query {
	if q.err != nil {
		return q
	}
	agg := Aggregate{Func: fn}
	switch c := column.(type) {
	case nil:
	case string:
		if c != "*" {
			agg.Column = Identifier(c)
		}
	case Raw:
		agg.Column = c
	default:
		return q.fail(&InvalidArgumentError{
			Param:    "column",
			Value:    column,
			Expected: []string{typeString, typeRaw, typeNil},
		})
	}
	q.Selects = append(q.Selects, SelectItem{Alias: alias, Expr: agg})
	return q
}

// AddInsert appends rows to insert. The columns of each map are taken in
// sorted order; use AddInsertRow to control the order.
func (q *Query) AddInsert(rows ...map[string]any) *Query {
	for _, row := range rows {
		if q.err != nil {
			return q
		}
		q.AddInsertRow(sortedAssignments(row)...)
	}
	return q
}

// AddInsertRow appends one row to insert with the columns in the given order.
func (q *Query) AddInsertRow(values ...Assignment) *Query {
	if q.err != nil {
		return q
	}
	row, err := q.resolveAssignments("values", values)
	if err != nil {
		return q.fail(err)
	}
	q.Inserts = append(q.Inserts, InsertRow(row))
	return q
}

// AddInsertFromSelect appends an INSERT ... SELECT entry. The selection is
// a *Query, Raw or subquery callback; no columns means the column list is
// omitted.
func (q *Query) AddInsertFromSelect(selection any, columns ...string) *Query {
	if q.err != nil {
		return q
	}
	sel, err := q.checkSubQueryValue("selection", selection)
	if err != nil {
		return q.fail(err)
	}
	var cols []string
	if len(columns) > 0 {
		cols = append(cols, columns...)
	}
	q.Inserts = append(q.Inserts, InsertFromSelect{Columns: cols, Select: sel})
	return q
}

// AddUpdate adds update assignments in sorted column order. A column set
// twice keeps its first position and the last value.
func (q *Query) AddUpdate(values map[string]any) *Query {
	return q.AddUpdateSet(sortedAssignments(values)...)
}

// AddUpdateSet adds update assignments in the given order.
func (q *Query) AddUpdateSet(values ...Assignment) *Query {
	if q.err != nil {
		return q
	}
	fields, err := q.resolveAssignments("values", values)
	if err != nil {
		return q.fail(err)
	}
	for _, f := range fields {
		replaced := false
		for i := range q.Updates {
			if q.Updates[i].Column == f.Column {
				q.Updates[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			q.Updates = append(q.Updates, f)
		}
	}
	return q
}

// SetDelete marks the query as a DELETE statement.
func (q *Query) SetDelete(del bool) *Query {
	if q.err != nil {
		return q
	}
	q.Delete = del
	return q
}

// SetOffset sets the offset: an integer, nil to clear, *Query, Raw or
// subquery callback. An offset without a limit is rejected at compile time.
func (q *Query) SetOffset(offset any) *Query {
	if q.err != nil {
		return q
	}
	e, err := q.checkIntOrNullValue("offset", offset)
	if err != nil {
		return q.fail(err)
	}
	q.Offset = e
	return q
}

// SetLimit sets the limit: an integer, nil to clear, *Query, Raw or
// subquery callback.
func (q *Query) SetLimit(limit any) *Query {
	if q.err != nil {
		return q
	}
	e, err := q.checkIntOrNullValue("limit", limit)
	if err != nil {
		return q.fail(err)
	}
	q.Limit = e
	return q
}

func (q *Query) resolveAssignments(param string, values []Assignment) ([]Field, error) {
	fields := make([]Field, 0, len(values))
	for _, a := range values {
		v, err := q.checkScalarOrNullValue(fmt.Sprintf("%s[%q]", param, a.Column), a.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Column: a.Column, Value: v})
	}
	return fields, nil
}

func sortedAssignments(values map[string]any) []Assignment {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Assignment, len(keys))
	for i, k := range keys {
		out[i] = Assignment{Column: k, Value: values[k]}
	}
	return out
}
