// Package grammar compiles query.Query trees into SQL text with ordered
// bindings.
//
// The Compiler renders the common SQL baseline: double-quoted identifiers,
// ? placeholders, LIMIT/OFFSET. Compilation is a read-only walk over the tree;
// bindings are accumulated in emission order so that the i-th ? of the text
// always corresponds to the i-th binding, including placeholders spliced in
// from nested subqueries.
//
// Statement kind is chosen in this order: INSERT if the query has insert
// entries, UPDATE if it has update assignments, DELETE if the delete flag is
// set, SELECT otherwise.
//
// Incoherent queries (no target table, offset without limit, ...) are
// reported as *InvalidQueryError when the offending clause is reached. An
// error raised inside a nested query is wrapped with a subquery prefix that
// keeps the original error as its cause.
package grammar
