package query

import "fmt"

// Expr is a value stored in a slot of the query tree.
//
// This is a sealed interface - only Param, Identifier, Aggregate, *Query and
// Raw implement it.
type Expr interface {
	exprNode()
}

// Param is a scalar value rendered as a ? placeholder with the value appended
// to the bindings.
type Param struct {
	Value any
}

func (Param) exprNode() {}

// Identifier is a column or table name. Dotted names are quoted segment by
// segment; a bare * segment is left as is.
type Identifier string

func (Identifier) exprNode() {}

// AggregateFunc names an aggregate function.
type AggregateFunc string

// Supported aggregate functions.
const (
	Count AggregateFunc = "COUNT"
	Min   AggregateFunc = "MIN"
	Max   AggregateFunc = "MAX"
	Avg   AggregateFunc = "AVG"
	Sum   AggregateFunc = "SUM"
)

// Aggregate is an aggregate call over a column. A nil Column means *.
type Aggregate struct {
	Func   AggregateFunc
	Column Expr // Identifier, Raw or nil
}

func (Aggregate) exprNode() {}

// Raw is an immutable literal SQL fragment with its ordered bindings.
//
// Raw is both an escape hatch inside the tree and the compiler's output type.
type Raw struct {
	SQL      string
	Bindings []any
}

func (Raw) exprNode()  {}
func (Raw) orderNode() {}

// String renders the SQL followed by its bindings, for diagnostics.
func (r Raw) String() string {
	return fmt.Sprintf("%s %v", r.SQL, r.Bindings)
}

// NewRaw creates a Raw. The bindings slice is copied.
func NewRaw(sql string, bindings ...any) Raw {
	b := make([]any, len(bindings))
	copy(b, bindings)
	return Raw{SQL: sql, Bindings: b}
}

// SelectItem is one entry of the select list. An empty Alias means the entry
// is not aliased.
type SelectItem struct {
	Alias string
	Expr  Expr
}

// Field is a column assignment in an insert row or an update.
type Field struct {
	Column string
	Value  Expr
}

// Assignment is an unresolved column/value pair passed to the builder.
type Assignment struct {
	Column string
	Value  any
}

// Set is a shorthand for Assignment.
// Example: q.AddUpdateSet(query.Set("title", "Foo"), query.Set("views", 0))
func Set(column string, value any) Assignment {
	return Assignment{Column: column, Value: value}
}

// InsertEntry is an item of the insert list: either InsertRow or
// InsertFromSelect.
type InsertEntry interface {
	insertNode()
}

// InsertRow is one row of an INSERT ... VALUES statement in column order.
type InsertRow []Field

func (InsertRow) insertNode() {}

// InsertFromSelect is an INSERT ... SELECT entry. Nil Columns means the
// column list is omitted.
type InsertFromSelect struct {
	Columns []string
	Select  Expr // *Query or Raw
}

func (InsertFromSelect) insertNode() {}
