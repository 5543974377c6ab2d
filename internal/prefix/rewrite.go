package prefix

import (
	"strings"

	"github.com/roach88/scribe/internal/query"
)

// rewriter rewrites a single query level.
type rewriter struct {
	p *Prefixer
	// tables holds the unaliased table names in scope, as written.
	tables map[string]struct{}
}

func (r *rewriter) rewrite(q *query.Query) {
	q.Table = r.table(q.Table)
	for i := range q.Selects {
		q.Selects[i].Expr = r.expr(q.Selects[i].Expr)
	}
	for i := range q.Joins {
		q.Joins[i].Table = r.table(q.Joins[i].Table)
		q.Joins[i].Criteria = r.criteria(q.Joins[i].Criteria)
	}
	q.Wheres = r.criteria(q.Wheres)
	for i, entry := range q.Orders {
		q.Orders[i] = r.order(entry)
	}
	for i := range q.Updates {
		q.Updates[i].Column = r.column(q.Updates[i].Column)
		q.Updates[i].Value = r.expr(q.Updates[i].Value)
	}
	for i, entry := range q.Inserts {
		switch e := entry.(type) {
		case query.InsertRow:
			for j := range e {
				e[j].Value = r.expr(e[j].Value)
			}
		case query.InsertFromSelect:
			e.Select = r.expr(e.Select)
			q.Inserts[i] = e
		}
	}
	q.Limit = r.expr(q.Limit)
	q.Offset = r.expr(q.Offset)
}

func (r *rewriter) table(e query.Expr) query.Expr {
	if id, ok := e.(query.Identifier); ok {
		return query.Identifier(r.p.Table(string(id)))
	}
	return r.expr(e)
}

// column prefixes the qualifier of name when it is a table in scope.
func (r *rewriter) column(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name
	}
	if _, ok := r.tables[name[:i]]; !ok {
		return name
	}
	return r.p.Table(name[:i]) + name[i:]
}

func (r *rewriter) expr(e query.Expr) query.Expr {
	switch v := e.(type) {
	case query.Identifier:
		return query.Identifier(r.column(string(v)))
	case query.Aggregate:
		v.Column = r.expr(v.Column)
		return v
	case *query.Query:
		if v == nil {
			return e
		}
		return r.p.apply(v, r.tables)
	default:
		return e
	}
}

func (r *rewriter) exprs(list []query.Expr) []query.Expr {
	for i, e := range list {
		list[i] = r.expr(e)
	}
	return list
}

func (r *rewriter) criteria(list []query.Criterion) []query.Criterion {
	for i, c := range list {
		list[i] = r.criterion(c)
	}
	return list
}

func (r *rewriter) criterion(c query.Criterion) query.Criterion {
	switch v := c.(type) {
	case query.ValueCriterion:
		v.Column = r.expr(v.Column)
		v.Value = r.expr(v.Value)
		return v
	case query.BetweenCriterion:
		v.Column = r.expr(v.Column)
		v.Min = r.expr(v.Min)
		v.Max = r.expr(v.Max)
		return v
	case query.InCriterion:
		v.Column = r.expr(v.Column)
		v.Values = r.exprs(v.Values)
		v.Subquery = r.expr(v.Subquery)
		return v
	case query.NullCriterion:
		v.Column = r.expr(v.Column)
		return v
	case query.GroupCriterion:
		v.Criteria = r.criteria(v.Criteria)
		return v
	case query.ColumnsCriterion:
		v.Left = r.expr(v.Left)
		v.Right = r.expr(v.Right)
		return v
	case query.ExistsCriterion:
		v.Subquery = r.expr(v.Subquery)
		return v
	default:
		return c
	}
}

func (r *rewriter) order(entry query.OrderEntry) query.OrderEntry {
	switch v := entry.(type) {
	case query.Order:
		v.Column = r.expr(v.Column)
		return v
	case query.NullOrder:
		v.Column = r.expr(v.Column)
		return v
	case query.ExplicitOrder:
		v.Column = r.expr(v.Column)
		v.Values = r.exprs(v.Values)
		return v
	default:
		return entry
	}
}
