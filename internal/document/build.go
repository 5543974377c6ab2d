package document

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/scribe/internal/query"
)

// Build creates the query described by the document. Options configure the
// root query; nested queries inherit its resolver and error handler.
func (d *Document) Build(opts ...query.Option) (*query.Query, error) {
	q := query.New(opts...)
	if err := buildQuery(q, &d.Query, "query"); err != nil {
		return nil, err
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("document %s: %w", d.Name, err)
	}
	return q, nil
}

// ident normalizes an identifier to NFC.
func ident(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func idents(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = ident(s)
	}
	return out
}

// subquery returns a callback building the described query into the seed
// it receives.
func subquery(qd *Query, path string) func(*query.Query) error {
	return func(s *query.Query) error {
		return buildQuery(s, qd, path)
	}
}

func buildQuery(q *query.Query, qd *Query, path string) error {
	switch {
	case qd.Table != "" && qd.From != nil:
		return fieldError(path, "table and from are mutually exclusive")
	case qd.Table != "":
		q.SetTable(ident(qd.Table), ident(qd.Alias))
	case qd.From != nil:
		q.SetTable(subquery(qd.From, path+".from"), ident(qd.Alias))
	case qd.Alias != "":
		return fieldError(path, "alias requires table or from")
	}

	for i, col := range qd.Select {
		if err := addColumn(q, col, fmt.Sprintf("%s.select[%d]", path, i)); err != nil {
			return err
		}
	}
	for i, j := range qd.Joins {
		if err := addJoin(q, j, fmt.Sprintf("%s.joins[%d]", path, i)); err != nil {
			return err
		}
	}
	if err := addConditions(q, qd.Where, path+".where"); err != nil {
		return err
	}
	for i, o := range qd.Order {
		if err := addOrder(q, o, fmt.Sprintf("%s.order[%d]", path, i)); err != nil {
			return err
		}
	}
	if qd.Limit != nil {
		q.SetLimit(valueArg(*qd.Limit, path+".limit"))
	}
	if qd.Offset != nil {
		q.SetOffset(valueArg(*qd.Offset, path+".offset"))
	}

	for i, row := range qd.Insert {
		q.AddInsertRow(assignments(row, fmt.Sprintf("%s.insert[%d]", path, i))...)
	}
	for i, from := range qd.InsertFrom {
		if err := addInsertFrom(q, from, fmt.Sprintf("%s.insert_from[%d]", path, i)); err != nil {
			return err
		}
	}
	if len(qd.Update) > 0 {
		q.AddUpdateSet(assignments(qd.Update, path+".update")...)
	}
	if qd.Delete {
		q.SetDelete(true)
	}
	return nil
}

// valueArg converts a document value into a builder argument.
func valueArg(v Value, path string) any {
	switch {
	case v.Query != nil:
		return subquery(v.Query, path)
	case v.Raw != nil:
		return query.NewRaw(v.Raw.SQL, v.Raw.Bindings...)
	default:
		return v.Literal
	}
}

func valueArgs(values []Value, path string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = valueArg(v, fmt.Sprintf("%s[%d]", path, i))
	}
	return out
}

func assignments(row Row, path string) []query.Assignment {
	out := make([]query.Assignment, len(row))
	for i, a := range row {
		out[i] = query.Set(ident(a.Column), valueArg(a.Value, path+"."+a.Column))
	}
	return out
}

func addColumn(q *query.Query, col Column, path string) error {
	if col.Aggregate != "" {
		var arg any
		switch {
		case col.Raw != nil:
			arg = query.NewRaw(col.Raw.SQL, col.Raw.Bindings...)
		case col.Column != "":
			arg = ident(col.Column)
		}
		alias := ident(col.As)
		switch strings.ToLower(col.Aggregate) {
		case "count":
			q.AddCount(arg, alias)
		case "sum":
			q.AddSum(arg, alias)
		case "avg":
			q.AddAvg(arg, alias)
		case "min":
			q.AddMin(arg, alias)
		case "max":
			q.AddMax(arg, alias)
		default:
			return fieldError(path, "unknown aggregate %q", col.Aggregate)
		}
		return nil
	}

	switch {
	case col.Query != nil:
		q.AddSelectAs(subquery(col.Query, path+".query"), ident(col.As))
	case col.Raw != nil:
		q.AddSelectAs(query.NewRaw(col.Raw.SQL, col.Raw.Bindings...), ident(col.As))
	case col.Column != "":
		q.AddSelectAs(ident(col.Column), ident(col.As))
	default:
		return fieldError(path, "one of column, query, raw or aggregate is required")
	}
	return nil
}

func addJoin(q *query.Query, j Join, path string) error {
	var table any
	switch {
	case j.Table != "" && j.Query != nil:
		return fieldError(path, "table and query are mutually exclusive")
	case j.Table != "":
		table = ident(j.Table)
	case j.Query != nil:
		table = subquery(j.Query, path+".query")
	default:
		return fieldError(path, "table or query is required")
	}

	var on []any
	if len(j.On) > 0 {
		conditions := j.On
		on = append(on, func(g *query.Query) error {
			return addConditions(g, conditions, path+".on")
		})
	}

	alias := ident(j.Alias)
	switch strings.ToLower(j.Type) {
	case "", "inner":
		q.InnerJoin(table, alias, on...)
	case "left":
		q.LeftJoin(table, alias, on...)
	case "right":
		q.RightJoin(table, alias, on...)
	case "outer":
		q.OuterJoin(table, alias, on...)
	case "cross":
		if len(on) > 0 {
			return fieldError(path, "cross join takes no on conditions")
		}
		q.CrossJoin(table, alias)
	default:
		return fieldError(path, "unknown join type %q", j.Type)
	}
	return nil
}

func addConditions(q *query.Query, conditions []Condition, path string) error {
	for i, c := range conditions {
		if err := addCondition(q, c, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// pick selects the builder method matching the or and not flags.
func pick[T any](c Condition, and, or, andNot, orNot T) T {
	switch {
	case c.Or && c.Not:
		return orNot
	case c.Or:
		return or
	case c.Not:
		return andNot
	default:
		return and
	}
}

// conditionKinds lists the kind keys set on c.
func conditionKinds(c Condition) []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(c.Value != nil, "value")
	add(c.Other != "", "other")
	add(c.Between != nil, "between")
	add(c.In != nil, "in")
	add(c.InQuery != nil, "in_query")
	add(c.Null != nil, "null")
	add(c.Exists != nil, "exists")
	add(c.Raw != nil, "raw")
	add(c.Group != nil, "group")
	return kinds
}

func addCondition(q *query.Query, c Condition, path string) error {
	kinds := conditionKinds(c)
	switch len(kinds) {
	case 0:
		return fieldError(path, "one of value, other, between, in, in_query, null, exists, raw or group is required")
	case 1:
	default:
		return fieldError(path, "conflicting condition kinds %s", strings.Join(kinds, ", "))
	}

	kind := kinds[0]
	column := ident(c.Column)
	switch kind {
	case "value", "other", "between", "in", "in_query", "null":
		if column == "" {
			return fieldError(path, "%s condition requires column", kind)
		}
	}
	switch kind {
	case "value", "other", "raw", "group":
		if c.Not {
			return fieldError(path, "not is not supported for %s conditions", kind)
		}
	}
	op := strings.TrimSpace(c.Op)
	if op == "" {
		op = "="
	}

	switch kind {
	case "value":
		where := q.Where
		if c.Or {
			where = q.OrWhere
		}
		where(column, op, valueArg(*c.Value, path+".value"))
	case "other":
		where := q.WhereColumn
		if c.Or {
			where = q.OrWhereColumn
		}
		where(column, op, ident(c.Other))
	case "between":
		if len(c.Between) != 2 {
			return fieldError(path, "between needs 2 values, got %d", len(c.Between))
		}
		where := pick(c, q.WhereBetween, q.OrWhereBetween, q.WhereNotBetween, q.OrWhereNotBetween)
		where(column, valueArg(c.Between[0], path+".between[0]"), valueArg(c.Between[1], path+".between[1]"))
	case "in":
		where := pick(c, q.WhereIn, q.OrWhereIn, q.WhereNotIn, q.OrWhereNotIn)
		where(column, valueArgs(c.In, path+".in"))
	case "in_query":
		where := pick(c, q.WhereIn, q.OrWhereIn, q.WhereNotIn, q.OrWhereNotIn)
		where(column, subquery(c.InQuery, path+".in_query"))
	case "null":
		isNull := *c.Null != c.Not
		where := pick(Condition{Or: c.Or, Not: !isNull}, q.WhereNull, q.OrWhereNull, q.WhereNotNull, q.OrWhereNotNull)
		where(column)
	case "exists":
		where := pick(c, q.WhereExists, q.OrWhereExists, q.WhereNotExists, q.OrWhereNotExists)
		where(subquery(c.Exists, path+".exists"))
	case "raw":
		where := q.WhereRaw
		if c.Or {
			where = q.OrWhereRaw
		}
		where(c.Raw.SQL, c.Raw.Bindings...)
	case "group":
		group := c.Group
		where := q.WhereGroup
		if c.Or {
			where = q.OrWhereGroup
		}
		where(func(g *query.Query) error {
			return addConditions(g, group, path+".group")
		})
	}
	return nil
}

func addOrder(q *query.Query, o OrderEntry, path string) error {
	column := ident(o.Column)
	switch {
	case o.Random:
		q.InRandomOrder()
	case o.Raw != nil:
		q.OrderByRaw(o.Raw.SQL, o.Raw.Bindings...)
	case column == "":
		return fieldError(path, "column is required")
	case o.Explicit != nil:
		q.InExplicitOrder(column, valueArgs(o.Explicit, path+".explicit"), o.OthersFirst)
	case o.Nulls != "":
		switch strings.ToLower(o.Nulls) {
		case "first":
			q.OrderByNullFirst(column)
		case "last":
			q.OrderByNullLast(column)
		default:
			return fieldError(path, "nulls must be first or last, got %q", o.Nulls)
		}
	default:
		direction := "asc"
		if o.Desc {
			direction = "desc"
		}
		q.OrderBy(column, direction)
	}
	return nil
}

func addInsertFrom(q *query.Query, from InsertFrom, path string) error {
	columns := idents(from.Columns)
	switch {
	case from.Query != nil && from.Raw != nil:
		return fieldError(path, "query and raw are mutually exclusive")
	case from.Query != nil:
		q.AddInsertFromSelect(subquery(from.Query, path+".query"), columns...)
	case from.Raw != nil:
		q.AddInsertFromSelect(query.NewRaw(from.Raw.SQL, from.Raw.Bindings...), columns...)
	default:
		return fieldError(path, "query or raw is required")
	}
	return nil
}
