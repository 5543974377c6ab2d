package query

// InnerJoin adds an INNER JOIN. The optional on arguments are either a
// single criteria group callback, or (left, right) / (left, operator, right)
// column names compared for equality or with the operator.
func (q *Query) InnerJoin(table any, alias string, on ...any) *Query {
	return q.join(InnerJoin, table, alias, on)
}

// LeftJoin adds a LEFT JOIN. See InnerJoin for the on arguments.
func (q *Query) LeftJoin(table any, alias string, on ...any) *Query {
	return q.join(LeftJoin, table, alias, on)
}

// RightJoin adds a RIGHT JOIN. See InnerJoin for the on arguments.
func (q *Query) RightJoin(table any, alias string, on ...any) *Query {
	return q.join(RightJoin, table, alias, on)
}

// OuterJoin adds an OUTER JOIN. See InnerJoin for the on arguments.
func (q *Query) OuterJoin(table any, alias string, on ...any) *Query {
	return q.join(OuterJoin, table, alias, on)
}

// CrossJoin adds a CROSS JOIN, which has no criteria.
func (q *Query) CrossJoin(table any, alias string) *Query {
	return q.join(CrossJoin, table, alias, nil)
}

func (q *Query) join(kind JoinType, table any, alias string, on []any) *Query {
	if q.err != nil {
		return q
	}
	t, err := q.checkStringValue("table", table)
	if err != nil {
		return q.fail(err)
	}
	criteria, err := q.joinCriteria(on)
	if err != nil {
		return q.fail(err)
	}
	q.Joins = append(q.Joins, Join{Type: kind, Table: t, TableAlias: alias, Criteria: criteria})
	return q
}

func (q *Query) joinCriteria(on []any) ([]Criterion, error) {
	switch len(on) {
	case 0:
		return nil, nil
	case 1:
		return q.groupCriteria("on", on[0])
	case 2, 3:
		left, right, operator := on[0], on[len(on)-1], any("=")
		if len(on) == 3 {
			operator = on[1]
		}
		op, ok := operator.(string)
		if !ok {
			return nil, &InvalidArgumentError{Param: "on[1]", Value: operator, Expected: []string{typeString}}
		}
		l, err := q.checkStringValue("on[0]", left)
		if err != nil {
			return nil, err
		}
		r, err := q.checkStringValue("on[last]", right)
		if err != nil {
			return nil, err
		}
		return []Criterion{ColumnsCriterion{Logic: And, Left: l, Operator: op, Right: r}}, nil
	default:
		return nil, &InvalidArgumentError{Param: "on", Value: on, Expected: []string{typeClosure, "2 or 3 columns"}}
	}
}
