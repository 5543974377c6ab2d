package query

// Query is the mutable description of a SQL statement.
//
// Statement kind is derived from the content when compiling: a non-empty
// Inserts list makes an INSERT, else a non-empty Updates list an UPDATE, else
// Delete a DELETE, otherwise a SELECT.
//
// The fields are read by compilers. Use the builder methods to change them:
// they validate arguments and resolve callbacks.
type Query struct {
	Table      Expr   // Identifier, *Query, Raw or nil
	TableAlias string // empty when not aliased
	Selects    []SelectItem
	Inserts    []InsertEntry
	Updates    []Field // unique columns, in assignment order
	Delete     bool
	Joins      []Join
	Wheres     []Criterion // implicitly a single group
	Orders     []OrderEntry
	Offset     Expr // Param, *Query, Raw or nil
	Limit      Expr // Param, *Query, Raw or nil

	resolver Resolver
	handler  ErrorHandler
	err      error
}

var _ Expr = (*Query)(nil)

// A Query is itself an Expr: subqueries fill the same slots as values.
func (*Query) exprNode() {}

// Option configures a new Query.
type Option func(*Query)

// WithResolver sets the closure resolver.
func WithResolver(r Resolver) Option {
	return func(q *Query) {
		q.resolver = r
	}
}

// WithErrorHandler sets the handler every builder error is routed through.
func WithErrorHandler(h ErrorHandler) Option {
	return func(q *Query) {
		q.handler = h
	}
}

// New creates an empty query using ClosureResolver and Rethrow unless
// overridden by options.
func New(opts ...Option) *Query {
	q := &Query{
		resolver: ClosureResolver{},
		handler:  Rethrow,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Err returns the first error kept by the query, if any.
func (q *Query) Err() error {
	return q.err
}

// Resolver returns the closure resolver of the query.
func (q *Query) Resolver() Resolver {
	return q.resolver
}

// SetResolver replaces the closure resolver. Queries seeded from this one
// afterwards share the new resolver.
func (q *Query) SetResolver(r Resolver) *Query {
	if r == nil {
		r = ClosureResolver{}
	}
	q.resolver = r
	return q
}

// MakeEmptyCopy returns a new blank query sharing only the resolver and
// error handler. It seeds subquery callbacks.
func (q *Query) MakeEmptyCopy() *Query {
	return &Query{
		resolver: q.resolver,
		handler:  q.handler,
	}
}

// MakeCopyForCriteriaGroup is MakeEmptyCopy that also keeps the table and
// alias, so group callbacks can qualify columns against the target table.
func (q *Query) MakeCopyForCriteriaGroup() *Query {
	c := q.MakeEmptyCopy()
	c.Table = q.Table
	c.TableAlias = q.TableAlias
	return c
}

// Apply passes the query to transform. If transform returns nil the query
// itself is the result, if it returns a *Query that query is the result. Any
// other return value is an InvalidReturnValueError.
func (q *Query) Apply(transform any) *Query {
	if q.err != nil {
		return q
	}
	fn, ok := AsClosure(transform)
	if !ok {
		return q.fail(&InvalidArgumentError{
			Param:    "Argument $transform",
			Value:    transform,
			Expected: []string{"closure"},
		})
	}
	result, err := fn(q)
	if err != nil {
		return q.fail(err)
	}
	next, err := checkReturnedQuery("the transform", result, q)
	if err != nil {
		return q.fail(err)
	}
	return next
}

// Clone returns a deep copy of the query. Nested queries are cloned too; Raw
// values are immutable and shared.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	c := &Query{
		Table:      cloneExpr(q.Table),
		TableAlias: q.TableAlias,
		Delete:     q.Delete,
		Offset:     cloneExpr(q.Offset),
		Limit:      cloneExpr(q.Limit),
		resolver:   q.resolver,
		handler:    q.handler,
		err:        q.err,
	}
	if q.Selects != nil {
		c.Selects = make([]SelectItem, len(q.Selects))
		for i, s := range q.Selects {
			c.Selects[i] = SelectItem{Alias: s.Alias, Expr: cloneExpr(s.Expr)}
		}
	}
	if q.Inserts != nil {
		c.Inserts = make([]InsertEntry, len(q.Inserts))
		for i, entry := range q.Inserts {
			c.Inserts[i] = cloneInsert(entry)
		}
	}
	c.Updates = cloneFields(q.Updates)
	if q.Joins != nil {
		c.Joins = make([]Join, len(q.Joins))
		for i, j := range q.Joins {
			c.Joins[i] = Join{
				Type:       j.Type,
				Table:      cloneExpr(j.Table),
				TableAlias: j.TableAlias,
				Criteria:   cloneCriteria(j.Criteria),
			}
		}
	}
	c.Wheres = cloneCriteria(q.Wheres)
	if q.Orders != nil {
		c.Orders = make([]OrderEntry, len(q.Orders))
		for i, o := range q.Orders {
			c.Orders[i] = cloneOrder(o)
		}
	}
	return c
}

// fail routes err through the error handler and keeps the result.
func (q *Query) fail(err error) *Query {
	if q.handler != nil {
		err = q.handler(err)
	}
	if err != nil && q.err == nil {
		q.err = err
	}
	return q
}

func cloneExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Query:
		return v.Clone()
	case Aggregate:
		return Aggregate{Func: v.Func, Column: cloneExpr(v.Column)}
	default:
		return e
	}
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Column: f.Column, Value: cloneExpr(f.Value)}
	}
	return out
}

func cloneInsert(entry InsertEntry) InsertEntry {
	switch e := entry.(type) {
	case InsertRow:
		return InsertRow(cloneFields(e))
	case InsertFromSelect:
		var cols []string
		if e.Columns != nil {
			cols = append([]string{}, e.Columns...)
		}
		return InsertFromSelect{Columns: cols, Select: cloneExpr(e.Select)}
	default:
		return entry
	}
}

func cloneCriteria(criteria []Criterion) []Criterion {
	if criteria == nil {
		return nil
	}
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		out[i] = cloneCriterion(c)
	}
	return out
}

func cloneCriterion(c Criterion) Criterion {
	switch v := c.(type) {
	case ValueCriterion:
		v.Column = cloneExpr(v.Column)
		v.Value = cloneExpr(v.Value)
		return v
	case BetweenCriterion:
		v.Column = cloneExpr(v.Column)
		v.Min = cloneExpr(v.Min)
		v.Max = cloneExpr(v.Max)
		return v
	case InCriterion:
		v.Column = cloneExpr(v.Column)
		v.Values = cloneExprs(v.Values)
		v.Subquery = cloneExpr(v.Subquery)
		return v
	case NullCriterion:
		v.Column = cloneExpr(v.Column)
		return v
	case GroupCriterion:
		v.Criteria = cloneCriteria(v.Criteria)
		return v
	case ColumnsCriterion:
		v.Left = cloneExpr(v.Left)
		v.Right = cloneExpr(v.Right)
		return v
	case ExistsCriterion:
		v.Subquery = cloneExpr(v.Subquery)
		return v
	default:
		return c
	}
}

func cloneOrder(o OrderEntry) OrderEntry {
	switch v := o.(type) {
	case Order:
		v.Column = cloneExpr(v.Column)
		return v
	case NullOrder:
		v.Column = cloneExpr(v.Column)
		return v
	case ExplicitOrder:
		v.Column = cloneExpr(v.Column)
		v.Values = cloneExprs(v.Values)
		return v
	default:
		return o
	}
}
