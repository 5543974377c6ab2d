package document

// Document is a named query description.
type Document struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Query       Query  `yaml:"query"`
}

// Query mirrors query.Query. The statement kind follows the same rules:
// insert, insert_from, update, delete, otherwise select.
type Query struct {
	// Table names the target table. From is used instead for a subquery.
	Table string `yaml:"table,omitempty"`
	From  *Query `yaml:"from,omitempty"`
	Alias string `yaml:"alias,omitempty"`

	Select []Column     `yaml:"select,omitempty"`
	Joins  []Join       `yaml:"joins,omitempty"`
	Where  []Condition  `yaml:"where,omitempty"`
	Order  []OrderEntry `yaml:"order,omitempty"`
	Limit  *Value       `yaml:"limit,omitempty"`
	Offset *Value       `yaml:"offset,omitempty"`

	Insert     []Row        `yaml:"insert,omitempty"`
	InsertFrom []InsertFrom `yaml:"insert_from,omitempty"`
	Update     Row          `yaml:"update,omitempty"`
	Delete     bool         `yaml:"delete,omitempty"`
}

// Column is a select list entry. A plain string is shorthand for
// {column: <string>}.
type Column struct {
	Column string `yaml:"column,omitempty"`
	As     string `yaml:"as,omitempty"`
	// Aggregate is count, sum, avg, min or max. An empty Column counts rows.
	Aggregate string `yaml:"aggregate,omitempty"`
	Query     *Query `yaml:"query,omitempty"`
	Raw       *Raw   `yaml:"raw,omitempty"`
}

// Join is a JOIN clause. On holds the join criteria; use other to compare
// columns.
type Join struct {
	// Type is inner (default), left, right, outer or cross.
	Type  string      `yaml:"type,omitempty"`
	Table string      `yaml:"table,omitempty"`
	Query *Query      `yaml:"query,omitempty"`
	Alias string      `yaml:"alias,omitempty"`
	On    []Condition `yaml:"on,omitempty"`
}

// Condition is one criterion. Exactly one of value, other, between, in,
// in_query, null, exists, raw or group selects its kind.
type Condition struct {
	Or  bool `yaml:"or,omitempty"`
	Not bool `yaml:"not,omitempty"`

	Column string `yaml:"column,omitempty"`
	// Op is the comparison operator for value and other. Defaults to =.
	Op    string `yaml:"op,omitempty"`
	Value *Value `yaml:"value,omitempty"`
	Other string `yaml:"other,omitempty"`

	Between []Value `yaml:"between,omitempty"`
	// In is kept when empty: `in: []` matches nothing.
	In      []Value     `yaml:"in"`
	InQuery *Query      `yaml:"in_query,omitempty"`
	Null    *bool       `yaml:"null,omitempty"`
	Exists  *Query      `yaml:"exists,omitempty"`
	Raw     *Raw        `yaml:"raw,omitempty"`
	Group   []Condition `yaml:"group,omitempty"`
}

// OrderEntry is an ORDER BY entry. A plain string is shorthand for
// {column: <string>}.
type OrderEntry struct {
	Column string `yaml:"column,omitempty"`
	Desc   bool   `yaml:"desc,omitempty"`
	// Nulls is first or last.
	Nulls       string  `yaml:"nulls,omitempty"`
	Explicit    []Value `yaml:"explicit,omitempty"`
	OthersFirst bool    `yaml:"others_first,omitempty"`
	Random      bool    `yaml:"random,omitempty"`
	Raw         *Raw    `yaml:"raw,omitempty"`
}

// InsertFrom is an INSERT ... SELECT entry.
type InsertFrom struct {
	Columns []string `yaml:"columns,omitempty"`
	Query   *Query   `yaml:"query,omitempty"`
	Raw     *Raw     `yaml:"raw,omitempty"`
}

// Raw is a literal SQL fragment. A plain string is shorthand for
// {sql: <string>}.
type Raw struct {
	SQL      string `yaml:"sql"`
	Bindings []any  `yaml:"bindings,omitempty"`
}

// Value is a literal scalar, or a mapping holding either raw or query.
type Value struct {
	Literal any
	Raw     *Raw
	Query   *Query
}

// Assignment is a column/value pair of a Row.
type Assignment struct {
	Column string
	Value  Value
}

// Row is a mapping of columns to values that keeps the document order.
type Row []Assignment
