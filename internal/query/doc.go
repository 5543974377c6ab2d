// Package query provides the in-memory intermediate representation (IR) of a
// SQL statement and the fluent builder that assembles it.
//
// ARCHITECTURE:
//
//	[fluent calls] → [Query IR] → [grammar.Compiler] → (sql, bindings)
//
// The Query is a mutable tree built incrementally. Every value placed into
// the tree is final: callbacks are resolved into concrete subqueries at the
// moment they are passed, so after construction a slot only ever holds one
// of the sealed Expr types:
//
//   - Param: a scalar bound as a ? placeholder
//   - Identifier: a (possibly dotted) column or table name
//   - Aggregate: COUNT/MIN/MAX/AVG/SUM over a column (select list only)
//   - *Query: a nested subquery
//   - Raw: literal SQL with its own bindings
//
// SEALED INTERFACES:
//
// Expr, Criterion and OrderEntry use the marker method pattern so that the
// grammar can switch over them exhaustively.
//
// CLOSURES:
//
// Builder methods that accept a subquery also accept a callback. The
// callback receives an empty seed query produced by the query's Resolver and
// either fills it (returning nil) or returns another *Query:
//
//	q := query.New().From("posts").WhereIn("author_id", func(sub *query.Query) {
//	    sub.From("authors").AddSelect("id").Where("banned", "=", false)
//	})
//
// Subquery callbacks start from a blank table context (MakeEmptyCopy) while
// criteria group callbacks inherit the table and alias
// (MakeCopyForCriteriaGroup). The Resolver is swappable so decorators (see
// package prefix) can intercept every subquery produced through it.
//
// ERRORS:
//
// A builder method that receives a bad argument routes an
// InvalidArgumentError (or InvalidReturnValueError for callbacks) through the
// query's ErrorHandler. By default the error is kept: it becomes sticky, later
// mutators are no-ops and Err returns it. Compilers refuse queries with a
// sticky error.
package query
