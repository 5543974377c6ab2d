package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/scribe/internal/query"
)

func (c *Compiler) compileSelectList(items []query.SelectItem, bindings *[]any) (string, error) {
	if len(items) == 0 {
		return "*", nil
	}
	columns := make([]string, 0, len(items))
	for _, item := range items {
		sql, err := c.compileColumn(item.Expr, bindings)
		if err != nil {
			return "", err
		}
		if item.Alias != "" {
			sql += " AS " + QuoteIdentifier(item.Alias)
		}
		columns = append(columns, sql)
	}
	return strings.Join(columns, ", "), nil
}

// compileTable renders a table reference with its optional alias.
func (c *Compiler) compileTable(table query.Expr, alias string, bindings *[]any) (string, error) {
	var sql string
	switch t := table.(type) {
	case query.Identifier:
		sql = QuoteCompositeIdentifier(string(t))
	case *query.Query, query.Raw:
		s, err := c.compileSubquery(t, bindings)
		if err != nil {
			return "", err
		}
		sql = s
	default:
		return "", invalidQuery(fmt.Sprintf("unsupported table expression %T", table))
	}
	if alias != "" {
		sql += " AS " + QuoteIdentifier(alias)
	}
	return sql, nil
}

func (c *Compiler) compileJoins(joins []query.Join, bindings *[]any) (string, error) {
	lines := make([]string, 0, len(joins))
	for _, j := range joins {
		table, err := c.compileTable(j.Table, j.TableAlias, bindings)
		if err != nil {
			return "", err
		}
		line := string(j.Type) + " JOIN " + table
		on, err := c.compileCriteria(j.Criteria, bindings)
		if err != nil {
			return "", err
		}
		if on != "" {
			line += " ON " + on
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Compiler) compileWhere(criteria []query.Criterion, bindings *[]any) (string, error) {
	sql, err := c.compileCriteria(criteria, bindings)
	if err != nil || sql == "" {
		return "", err
	}
	return "WHERE " + sql, nil
}

// compileCriteria renders a criteria list. The connective of the first
// rendered entry is dropped and empty groups render nothing.
func (c *Compiler) compileCriteria(criteria []query.Criterion, bindings *[]any) (string, error) {
	var sb strings.Builder
	for _, crit := range criteria {
		sql, err := c.compileCriterion(crit, bindings)
		if err != nil {
			return "", err
		}
		if sql == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" " + connective(crit) + " ")
		}
		sb.WriteString(sql)
	}
	return sb.String(), nil
}

func connective(crit query.Criterion) string {
	if crit.Connective() == query.Or {
		return "OR"
	}
	return "AND"
}

func (c *Compiler) compileCriterion(crit query.Criterion, bindings *[]any) (string, error) {
	switch v := crit.(type) {
	case query.ValueCriterion:
		return c.compileComparison(v.Column, v.Operator, v.Value, bindings, c.compileValue)
	case query.ColumnsCriterion:
		return c.compileComparison(v.Left, v.Operator, v.Right, bindings, c.compileColumn)
	case query.BetweenCriterion:
		column, err := c.compileColumn(v.Column, bindings)
		if err != nil {
			return "", err
		}
		low, err := c.compileValue(v.Min, bindings)
		if err != nil {
			return "", err
		}
		high, err := c.compileValue(v.Max, bindings)
		if err != nil {
			return "", err
		}
		return column + not(v.Not) + " BETWEEN " + low + " AND " + high, nil
	case query.InCriterion:
		return c.compileIn(v, bindings)
	case query.NullCriterion:
		column, err := c.compileColumn(v.Column, bindings)
		if err != nil {
			return "", err
		}
		if v.IsNull {
			return column + " IS NULL", nil
		}
		return column + " IS NOT NULL", nil
	case query.RawCriterion:
		*bindings = append(*bindings, v.Raw.Bindings...)
		return "(" + v.Raw.SQL + ")", nil
	case query.GroupCriterion:
		sql, err := c.compileCriteria(v.Criteria, bindings)
		if err != nil || sql == "" {
			return "", err
		}
		return "(" + sql + ")", nil
	case query.ExistsCriterion:
		sub, err := c.compileSubquery(v.Subquery, bindings)
		if err != nil {
			return "", err
		}
		if v.Not {
			return "NOT EXISTS " + sub, nil
		}
		return "EXISTS " + sub, nil
	default:
		return "", invalidQuery(fmt.Sprintf("unsupported criterion type %T", crit))
	}
}

func (c *Compiler) compileComparison(left query.Expr, op string, right query.Expr, bindings *[]any,
	compileRight func(query.Expr, *[]any) (string, error)) (string, error) {
	l, err := c.compileColumn(left, bindings)
	if err != nil {
		return "", err
	}
	r, err := compileRight(right, bindings)
	if err != nil {
		return "", err
	}
	op = strings.TrimSpace(op)
	if op == "" {
		op = "="
	}
	return l + " " + op + " " + r, nil
}

func (c *Compiler) compileIn(v query.InCriterion, bindings *[]any) (string, error) {
	column, err := c.compileColumn(v.Column, bindings)
	if err != nil {
		return "", err
	}
	if v.Subquery != nil {
		sub, err := c.compileSubquery(v.Subquery, bindings)
		if err != nil {
			return "", err
		}
		return column + not(v.Not) + " IN " + sub, nil
	}
	if len(v.Values) == 0 {
		// Nothing is in an empty list.
		if v.Not {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}
	values := make([]string, len(v.Values))
	for i, value := range v.Values {
		if values[i], err = c.compileValue(value, bindings); err != nil {
			return "", err
		}
	}
	return column + not(v.Not) + " IN (" + strings.Join(values, ", ") + ")", nil
}

func not(negate bool) string {
	if negate {
		return " NOT"
	}
	return ""
}

func (c *Compiler) compileOrder(entries []query.OrderEntry, bindings *[]any) (string, error) {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		sql, err := c.compileOrderEntry(entry, bindings)
		if err != nil {
			return "", err
		}
		if sql != "" {
			parts = append(parts, sql)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

func (c *Compiler) compileOrderEntry(entry query.OrderEntry, bindings *[]any) (string, error) {
	switch o := entry.(type) {
	case query.Order:
		column, err := c.compileColumn(o.Column, bindings)
		if err != nil {
			return "", err
		}
		if o.Descending {
			return column + " DESC", nil
		}
		return column + " ASC", nil
	case query.NullOrder:
		column, err := c.compileColumn(o.Column, bindings)
		if err != nil {
			return "", err
		}
		// false sorts before true.
		if o.NullsLast {
			return column + " IS NULL", nil
		}
		return column + " IS NOT NULL", nil
	case query.ExplicitOrder:
		return c.compileExplicitOrder(o, bindings)
	case query.RandomOrder:
		return "RANDOM()", nil
	case query.Raw:
		*bindings = append(*bindings, o.Bindings...)
		return o.SQL, nil
	default:
		return "", invalidQuery(fmt.Sprintf("unsupported order entry %#v", entry))
	}
}

// compileExplicitOrder renders a CASE expression mapping each listed value
// to its position. Unlisted values map after the last position, or to -1
// when they go first.
func (c *Compiler) compileExplicitOrder(o query.ExplicitOrder, bindings *[]any) (string, error) {
	if len(o.Values) == 0 {
		return "", nil
	}
	column, err := c.compileColumn(o.Column, bindings)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("CASE " + column)
	for i, value := range o.Values {
		v, err := c.compileValue(value, bindings)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHEN " + v + " THEN " + strconv.Itoa(i))
	}
	others := len(o.Values)
	if o.OthersFirst {
		others = -1
	}
	sb.WriteString(" ELSE " + strconv.Itoa(others) + " END")
	return sb.String(), nil
}

func (c *Compiler) compileLimitOffset(q *query.Query, bindings *[]any) (string, error) {
	if q.Limit == nil {
		if q.Offset != nil {
			return "", invalidQuery("OFFSET is set but LIMIT is not")
		}
		return "", nil
	}
	limit, err := c.compileValue(q.Limit, bindings)
	if err != nil {
		return "", err
	}
	if q.Offset == nil {
		return "LIMIT " + limit, nil
	}
	offset, err := c.compileValue(q.Offset, bindings)
	if err != nil {
		return "", err
	}
	return "LIMIT " + limit + "\nOFFSET " + offset, nil
}

func (c *Compiler) compileUpdateSet(fields []query.Field, bindings *[]any) (string, error) {
	assignments := make([]string, len(fields))
	for i, f := range fields {
		v, err := c.compileValue(f.Value, bindings)
		if err != nil {
			return "", err
		}
		assignments[i] = QuoteCompositeIdentifier(f.Column) + " = " + v
	}
	return "SET " + strings.Join(assignments, ", "), nil
}

// compileColumn renders an expression in column position.
func (c *Compiler) compileColumn(e query.Expr, bindings *[]any) (string, error) {
	switch v := e.(type) {
	case query.Identifier:
		return QuoteCompositeIdentifier(string(v)), nil
	case query.Aggregate:
		if v.Column == nil {
			return string(v.Func) + "(*)", nil
		}
		if r, ok := v.Column.(query.Raw); ok {
			*bindings = append(*bindings, r.Bindings...)
			return string(v.Func) + "(" + r.SQL + ")", nil
		}
		arg, err := c.compileColumn(v.Column, bindings)
		if err != nil {
			return "", err
		}
		return string(v.Func) + "(" + arg + ")", nil
	default:
		return c.compileValue(e, bindings)
	}
}

// compileValue renders an expression in value position. Scalars become
// placeholders.
func (c *Compiler) compileValue(e query.Expr, bindings *[]any) (string, error) {
	switch v := e.(type) {
	case query.Param:
		*bindings = append(*bindings, v.Value)
		return "?", nil
	case *query.Query, query.Raw:
		return c.compileSubquery(v, bindings)
	case query.Identifier, query.Aggregate:
		return c.compileColumn(v, bindings)
	default:
		return "", invalidQuery(fmt.Sprintf("unsupported value expression %T", e))
	}
}

// compileSubquery renders a nested query or raw fragment in parentheses.
func (c *Compiler) compileSubquery(e query.Expr, bindings *[]any) (string, error) {
	sql, err := c.compileNested(e, bindings)
	if err != nil {
		return "", err
	}
	return "(" + sql + ")", nil
}

// compileNested renders a nested query or raw fragment without parentheses.
func (c *Compiler) compileNested(e query.Expr, bindings *[]any) (string, error) {
	switch v := e.(type) {
	case *query.Query:
		raw, err := c.Compile(v)
		if err != nil {
			return "", wrapSubqueryError(err)
		}
		*bindings = append(*bindings, raw.Bindings...)
		return raw.SQL, nil
	case query.Raw:
		*bindings = append(*bindings, v.Bindings...)
		return v.SQL, nil
	default:
		return "", invalidQuery(fmt.Sprintf("unsupported subquery expression %T", e))
	}
}
