package grammar

import (
	"strings"

	"github.com/roach88/scribe/internal/query"
)

// Grammar renders queries into SQL statements.
type Grammar interface {
	// Compile renders the statement kind the query describes. Several
	// INSERT statements are joined with ";\n" into one Raw.
	Compile(q *query.Query) (query.Raw, error)
	CompileSelect(q *query.Query) (query.Raw, error)
	CompileInsert(q *query.Query) ([]query.Raw, error)
	CompileUpdate(q *query.Query) (query.Raw, error)
	CompileDelete(q *query.Query) (query.Raw, error)
	QuoteIdentifier(name string) string
	QuoteCompositeIdentifier(name string) string
	EscapeLikeWildcards(s string) string
}

// Compiler is the common SQL grammar. It holds no state between calls and is
// safe for concurrent use.
type Compiler struct{}

var _ Grammar = (*Compiler)(nil)

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile dispatches on the statement kind: INSERT, UPDATE, DELETE, then
// SELECT.
func (c *Compiler) Compile(q *query.Query) (query.Raw, error) {
	if err := checkQuery(q); err != nil {
		return query.Raw{}, err
	}
	switch {
	case len(q.Inserts) > 0:
		statements, err := c.CompileInsert(q)
		if err != nil {
			return query.Raw{}, err
		}
		return joinStatements(statements), nil
	case len(q.Updates) > 0:
		return c.CompileUpdate(q)
	case q.Delete:
		return c.CompileDelete(q)
	default:
		return c.CompileSelect(q)
	}
}

// CompileSelect renders a SELECT statement.
func (c *Compiler) CompileSelect(q *query.Query) (query.Raw, error) {
	if err := checkQuery(q); err != nil {
		return query.Raw{}, err
	}
	var bindings []any
	columns, err := c.compileSelectList(q.Selects, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	if q.Table == nil {
		return query.Raw{}, invalidQuery("FROM table is not set")
	}
	from, err := c.compileTable(q.Table, q.TableAlias, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	tail, err := c.compileTail(q, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	return statement(bindings, append([]string{"SELECT " + columns + " FROM " + from}, tail...)...), nil
}

// CompileUpdate renders an UPDATE statement.
func (c *Compiler) CompileUpdate(q *query.Query) (query.Raw, error) {
	if err := checkQuery(q); err != nil {
		return query.Raw{}, err
	}
	if q.Table == nil {
		return query.Raw{}, invalidQuery("UPDATE target table is not set")
	}
	if len(q.Updates) == 0 {
		return query.Raw{}, invalidQuery("UPDATE values are not set")
	}
	var bindings []any
	table, err := c.compileTable(q.Table, q.TableAlias, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	joins, err := c.compileJoins(q.Joins, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	set, err := c.compileUpdateSet(q.Updates, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	tail, err := c.compileFilters(q, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	parts := append([]string{"UPDATE " + table, joins, set}, tail...)
	return statement(bindings, parts...), nil
}

// CompileDelete renders a DELETE statement. A table alias is repeated after
// DELETE.
func (c *Compiler) CompileDelete(q *query.Query) (query.Raw, error) {
	if err := checkQuery(q); err != nil {
		return query.Raw{}, err
	}
	if q.Table == nil {
		return query.Raw{}, invalidQuery("DELETE target table is not set")
	}
	var bindings []any
	table, err := c.compileTable(q.Table, q.TableAlias, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	head := "DELETE FROM " + table
	if q.TableAlias != "" {
		head = "DELETE " + QuoteIdentifier(q.TableAlias) + " FROM " + table
	}
	tail, err := c.compileTail(q, &bindings)
	if err != nil {
		return query.Raw{}, err
	}
	return statement(bindings, append([]string{head}, tail...)...), nil
}

// QuoteIdentifier implements Grammar.
func (c *Compiler) QuoteIdentifier(name string) string {
	return QuoteIdentifier(name)
}

// QuoteCompositeIdentifier implements Grammar.
func (c *Compiler) QuoteCompositeIdentifier(name string) string {
	return QuoteCompositeIdentifier(name)
}

// EscapeLikeWildcards implements Grammar.
func (c *Compiler) EscapeLikeWildcards(s string) string {
	return EscapeLikeWildcards(s)
}

// compileTail renders the clauses following FROM in SELECT and DELETE.
func (c *Compiler) compileTail(q *query.Query, bindings *[]any) ([]string, error) {
	joins, err := c.compileJoins(q.Joins, bindings)
	if err != nil {
		return nil, err
	}
	filters, err := c.compileFilters(q, bindings)
	if err != nil {
		return nil, err
	}
	return append([]string{joins}, filters...), nil
}

// compileFilters renders WHERE, ORDER BY, LIMIT and OFFSET.
func (c *Compiler) compileFilters(q *query.Query, bindings *[]any) ([]string, error) {
	where, err := c.compileWhere(q.Wheres, bindings)
	if err != nil {
		return nil, err
	}
	order, err := c.compileOrder(q.Orders, bindings)
	if err != nil {
		return nil, err
	}
	limit, err := c.compileLimitOffset(q, bindings)
	if err != nil {
		return nil, err
	}
	return []string{where, order, limit}, nil
}

func checkQuery(q *query.Query) error {
	if q == nil {
		return invalidQuery("cannot compile nil query")
	}
	return q.Err()
}

// statement joins the non-empty clauses with newlines.
func statement(bindings []any, parts ...string) query.Raw {
	return query.Raw{SQL: joinClauses(parts...), Bindings: bindings}
}

func joinClauses(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func joinStatements(statements []query.Raw) query.Raw {
	if len(statements) == 1 {
		return statements[0]
	}
	sqls := make([]string, len(statements))
	var bindings []any
	for i, s := range statements {
		sqls[i] = s.SQL
		bindings = append(bindings, s.Bindings...)
	}
	return query.Raw{SQL: strings.Join(sqls, ";\n"), Bindings: bindings}
}
