package query

import "strings"

// OrderBy sorts by a column, *Query, Raw or subquery callback. Direction is
// "asc" or "desc" (any case); empty means ascending.
func (q *Query) OrderBy(column any, direction string) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	var desc bool
	switch strings.ToLower(direction) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return q.fail(&InvalidArgumentError{
			Param:    "direction",
			Value:    direction,
			Expected: []string{`"asc"`, `"desc"`},
		})
	}
	q.Orders = append(q.Orders, Order{Column: c, Descending: desc})
	return q
}

// OrderByRaw appends a literal ORDER BY entry.
func (q *Query) OrderByRaw(sql string, bindings ...any) *Query {
	if q.err != nil {
		return q
	}
	q.Orders = append(q.Orders, NewRaw(sql, bindings...))
	return q
}

// OrderByNullLast sorts NULL values of the column after the others.
func (q *Query) OrderByNullLast(column any) *Query {
	return q.orderByNull(column, true)
}

// OrderByNullFirst sorts NULL values of the column before the others.
func (q *Query) OrderByNullFirst(column any) *Query {
	return q.orderByNull(column, false)
}

func (q *Query) orderByNull(column any, last bool) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	q.Orders = append(q.Orders, NullOrder{Column: c, NullsLast: last})
	return q
}

// InExplicitOrder sorts rows by the position of the column value in values.
// Rows with other values go last, or first when othersFirst is set.
func (q *Query) InExplicitOrder(column any, values []any, othersFirst bool) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	list, err := q.checkScalarList("values", values)
	if err != nil {
		return q.fail(err)
	}
	q.Orders = append(q.Orders, ExplicitOrder{Column: c, Values: list, OthersFirst: othersFirst})
	return q
}

// InRandomOrder shuffles the rows.
func (q *Query) InRandomOrder() *Query {
	if q.err != nil {
		return q
	}
	q.Orders = append(q.Orders, RandomOrder{})
	return q
}
