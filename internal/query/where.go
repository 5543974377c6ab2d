package query

// Where adds "column operator value" joined with AND. The column is a name,
// *Query, Raw or subquery callback; the value is a scalar, *Query, Raw or
// subquery callback.
func (q *Query) Where(column any, operator string, value any) *Query {
	return q.whereValue(And, column, operator, value)
}

// OrWhere is Where joined with OR.
func (q *Query) OrWhere(column any, operator string, value any) *Query {
	return q.whereValue(Or, column, operator, value)
}

// WhereGroup adds a parenthesized group of criteria built by fn. The seed
// handed to fn keeps the table and alias of q.
func (q *Query) WhereGroup(fn any) *Query {
	return q.whereGroup(And, fn)
}

// OrWhereGroup is WhereGroup joined with OR.
func (q *Query) OrWhereGroup(fn any) *Query {
	return q.whereGroup(Or, fn)
}

// WhereRaw adds a literal SQL condition.
func (q *Query) WhereRaw(sql string, bindings ...any) *Query {
	return q.addCriterion(RawCriterion{Logic: And, Raw: NewRaw(sql, bindings...)})
}

// OrWhereRaw is WhereRaw joined with OR.
func (q *Query) OrWhereRaw(sql string, bindings ...any) *Query {
	return q.addCriterion(RawCriterion{Logic: Or, Raw: NewRaw(sql, bindings...)})
}

// WhereBetween adds "column BETWEEN min AND max".
func (q *Query) WhereBetween(column, low, high any) *Query {
	return q.whereBetween(And, column, low, high, false)
}

// OrWhereBetween is WhereBetween joined with OR.
func (q *Query) OrWhereBetween(column, low, high any) *Query {
	return q.whereBetween(Or, column, low, high, false)
}

// WhereNotBetween adds "column NOT BETWEEN min AND max".
func (q *Query) WhereNotBetween(column, low, high any) *Query {
	return q.whereBetween(And, column, low, high, true)
}

// OrWhereNotBetween is WhereNotBetween joined with OR.
func (q *Query) OrWhereNotBetween(column, low, high any) *Query {
	return q.whereBetween(Or, column, low, high, true)
}

// WhereIn adds "column IN (...)". Values is a slice of scalars, a *Query,
// Raw or subquery callback.
func (q *Query) WhereIn(column, values any) *Query {
	return q.whereIn(And, column, values, false)
}

// OrWhereIn is WhereIn joined with OR.
func (q *Query) OrWhereIn(column, values any) *Query {
	return q.whereIn(Or, column, values, false)
}

// WhereNotIn adds "column NOT IN (...)".
func (q *Query) WhereNotIn(column, values any) *Query {
	return q.whereIn(And, column, values, true)
}

// OrWhereNotIn is WhereNotIn joined with OR.
func (q *Query) OrWhereNotIn(column, values any) *Query {
	return q.whereIn(Or, column, values, true)
}

// WhereNull adds "column IS NULL".
func (q *Query) WhereNull(column any) *Query {
	return q.whereNull(And, column, true)
}

// OrWhereNull is WhereNull joined with OR.
func (q *Query) OrWhereNull(column any) *Query {
	return q.whereNull(Or, column, true)
}

// WhereNotNull adds "column IS NOT NULL".
func (q *Query) WhereNotNull(column any) *Query {
	return q.whereNull(And, column, false)
}

// OrWhereNotNull is WhereNotNull joined with OR.
func (q *Query) OrWhereNotNull(column any) *Query {
	return q.whereNull(Or, column, false)
}

// WhereColumn compares two columns.
func (q *Query) WhereColumn(left any, operator string, right any) *Query {
	return q.whereColumn(And, left, operator, right)
}

// OrWhereColumn is WhereColumn joined with OR.
func (q *Query) OrWhereColumn(left any, operator string, right any) *Query {
	return q.whereColumn(Or, left, operator, right)
}

// WhereExists adds "EXISTS (subquery)".
func (q *Query) WhereExists(subquery any) *Query {
	return q.whereExists(And, subquery, false)
}

// OrWhereExists is WhereExists joined with OR.
func (q *Query) OrWhereExists(subquery any) *Query {
	return q.whereExists(Or, subquery, false)
}

// WhereNotExists adds "NOT EXISTS (subquery)".
func (q *Query) WhereNotExists(subquery any) *Query {
	return q.whereExists(And, subquery, true)
}

// OrWhereNotExists is WhereNotExists joined with OR.
func (q *Query) OrWhereNotExists(subquery any) *Query {
	return q.whereExists(Or, subquery, true)
}

func (q *Query) addCriterion(c Criterion) *Query {
	if q.err != nil {
		return q
	}
	q.Wheres = append(q.Wheres, c)
	return q
}

func (q *Query) whereValue(logic Combinator, column any, operator string, value any) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	v, err := q.checkScalarOrNullValue("value", value)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(ValueCriterion{Logic: logic, Column: c, Operator: operator, Value: v})
}

func (q *Query) whereGroup(logic Combinator, fn any) *Query {
	if q.err != nil {
		return q
	}
	criteria, err := q.groupCriteria("fn", fn)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(GroupCriterion{Logic: logic, Criteria: criteria})
}

// groupCriteria resolves a criteria group callback and returns its criteria.
func (q *Query) groupCriteria(param string, fn any) ([]Criterion, error) {
	closure, ok := AsClosure(fn)
	if !ok {
		return nil, &InvalidArgumentError{Param: param, Value: fn, Expected: []string{typeClosure}}
	}
	group, err := q.resolver.ResolveCriteriaGroup(q, closure)
	if err != nil {
		return nil, err
	}
	return group.Wheres, nil
}

func (q *Query) whereBetween(logic Combinator, column, low, high any, not bool) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	lo, err := q.checkScalarOrNullValue("low", low)
	if err != nil {
		return q.fail(err)
	}
	hi, err := q.checkScalarOrNullValue("high", high)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(BetweenCriterion{Logic: logic, Column: c, Min: lo, Max: hi, Not: not})
}

func (q *Query) whereIn(logic Combinator, column, values any, not bool) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	criterion := InCriterion{Logic: logic, Column: c, Not: not}
	sub, ok, err := q.subqueryValue(values)
	if err != nil {
		return q.fail(err)
	}
	if ok {
		criterion.Subquery = sub
	} else {
		list, err := q.checkScalarList("values", values)
		if err != nil {
			return q.fail(err)
		}
		criterion.Values = list
	}
	return q.addCriterion(criterion)
}

func (q *Query) whereNull(logic Combinator, column any, isNull bool) *Query {
	if q.err != nil {
		return q
	}
	c, err := q.checkStringValue("column", column)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(NullCriterion{Logic: logic, Column: c, IsNull: isNull})
}

func (q *Query) whereColumn(logic Combinator, left any, operator string, right any) *Query {
	if q.err != nil {
		return q
	}
	l, err := q.checkStringValue("left", left)
	if err != nil {
		return q.fail(err)
	}
	r, err := q.checkStringValue("right", right)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(ColumnsCriterion{Logic: logic, Left: l, Operator: operator, Right: r})
}

func (q *Query) whereExists(logic Combinator, subquery any, not bool) *Query {
	if q.err != nil {
		return q
	}
	sub, err := q.checkSubQueryValue("subquery", subquery)
	if err != nil {
		return q.fail(err)
	}
	return q.addCriterion(ExistsCriterion{Logic: logic, Subquery: sub, Not: not})
}
