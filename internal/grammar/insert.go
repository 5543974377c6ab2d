package grammar

import (
	"strings"

	"github.com/roach88/scribe/internal/query"
)

// CompileInsert renders the INSERT statements of the query: one VALUES
// statement covering every row, then one statement per INSERT ... SELECT
// entry.
//
// The VALUES column list is the union of the row columns in first-seen
// order; a row missing a column gets DEFAULT.
func (c *Compiler) CompileInsert(q *query.Query) ([]query.Raw, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	if q.Table == nil {
		return nil, invalidQuery("INSERT target table is not set")
	}
	if q.TableAlias != "" {
		return nil, invalidQuery("table alias is not allowed in INSERT query")
	}
	if len(q.Inserts) == 0 {
		return nil, invalidQuery("INSERT values are not set")
	}

	var rows []query.InsertRow
	var selects []query.InsertFromSelect
	for _, entry := range q.Inserts {
		switch e := entry.(type) {
		case query.InsertRow:
			rows = append(rows, e)
		case query.InsertFromSelect:
			selects = append(selects, e)
		}
	}

	var statements []query.Raw
	if len(rows) > 0 {
		values, err := c.compileInsertValues(q.Table, rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, values...)
	}
	for _, s := range selects {
		stmt, err := c.compileInsertSelect(q.Table, s)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (c *Compiler) compileInsertValues(table query.Expr, rows []query.InsertRow) ([]query.Raw, error) {
	var columns []string
	position := make(map[string]int)
	for _, row := range rows {
		for _, f := range row {
			if _, ok := position[f.Column]; !ok {
				position[f.Column] = len(columns)
				columns = append(columns, f.Column)
			}
		}
	}

	var bindings []any
	target, err := c.compileTable(table, "", &bindings)
	if err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		// Rows without columns insert defaults only, one statement each.
		statements := make([]query.Raw, len(rows))
		for i := range rows {
			statements[i] = query.Raw{SQL: "INSERT INTO " + target + " DEFAULT VALUES", Bindings: bindings}
		}
		return statements, nil
	}

	tuples := make([]string, len(rows))
	for i, row := range rows {
		slots := make([]query.Expr, len(columns))
		for _, f := range row {
			slots[position[f.Column]] = f.Value
		}
		values := make([]string, len(columns))
		for j, slot := range slots {
			if slot == nil {
				values[j] = "DEFAULT"
				continue
			}
			if values[j], err = c.compileValue(slot, &bindings); err != nil {
				return nil, err
			}
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}

	sql := "INSERT INTO " + target + " (" + quoteColumns(columns) + ")\nVALUES " + strings.Join(tuples, ", ")
	return []query.Raw{{SQL: sql, Bindings: bindings}}, nil
}

func (c *Compiler) compileInsertSelect(table query.Expr, s query.InsertFromSelect) (query.Raw, error) {
	var bindings []any
	target, err := c.compileTable(table, "", &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	head := "INSERT INTO " + target
	if len(s.Columns) > 0 {
		head += " (" + quoteColumns(s.Columns) + ")"
	}
	sel, err := c.compileNested(s.Select, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	return query.Raw{SQL: head + "\n" + sel, Bindings: bindings}, nil
}

func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = QuoteCompositeIdentifier(col)
	}
	return strings.Join(quoted, ", ")
}
