// Package prefix namespaces table names of queries built with the query
// package.
//
// A Prefixer is a query.Resolver installed on a root query. Subqueries
// produced by callbacks are left as written; Apply rewrites the finished
// root and every query nested in it in one walk, so tables the root gains
// after a subquery was attached are still visible to that subquery.
//
// Rewritten names are the FROM and JOIN tables given by name (the last
// dotted segment gets the prefix) and columns qualified by one of the
// unaliased tables in scope: the tables of the query itself and of the
// queries enclosing it, so correlated references are rewritten too.
//
// A Prefixer remembers the queries it has rewritten; use one per built
// query and call Apply once building is complete.
package prefix

import (
	"strings"

	"github.com/roach88/scribe/internal/query"
)

// Prefixer prepends a fixed prefix to table names.
type Prefixer struct {
	prefix string
	base   query.Resolver
	done   map[*query.Query]struct{}
}

var _ query.Resolver = (*Prefixer)(nil)

// New creates a Prefixer delegating callback execution to base. A nil base
// means query.ClosureResolver.
func New(prefix string, base query.Resolver) *Prefixer {
	if base == nil {
		base = query.ClosureResolver{}
	}
	return &Prefixer{
		prefix: prefix,
		base:   base,
		done:   make(map[*query.Query]struct{}),
	}
}

// Prefix returns the prefix prepended to table names.
func (p *Prefixer) Prefix() string {
	return p.prefix
}

// NewQuery creates a query resolving its callbacks through p.
func (p *Prefixer) NewQuery(opts ...query.Option) *query.Query {
	return query.New(append(opts, query.WithResolver(p))...)
}

// ResolveSubQuery implements query.Resolver. The subquery inherits p as its
// resolver and is rewritten when its root is applied.
func (p *Prefixer) ResolveSubQuery(parent *query.Query, fn query.Closure) (*query.Query, error) {
	return p.base.ResolveSubQuery(parent, fn)
}

// ResolveCriteriaGroup implements query.Resolver. Group criteria belong to
// the parent and are rewritten with it.
func (p *Prefixer) ResolveCriteriaGroup(parent *query.Query, fn query.Closure) (*query.Query, error) {
	return p.base.ResolveCriteriaGroup(parent, fn)
}

// Apply rewrites q and every nested query not rewritten yet. It returns q.
// Column qualifiers of q are matched against q's own tables only, so q
// should be the outermost query.
func (p *Prefixer) Apply(q *query.Query) *query.Query {
	if q == nil {
		return nil
	}
	return p.apply(q, nil)
}

// Table returns name with the prefix prepended to its last segment.
func (p *Prefixer) Table(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i+1] + p.prefix + name[i+1:]
	}
	return p.prefix + name
}

func (p *Prefixer) apply(q *query.Query, outer map[string]struct{}) *query.Query {
	if _, ok := p.done[q]; ok {
		return q
	}
	p.done[q] = struct{}{}
	r := &rewriter{p: p, tables: scopeOf(q, outer)}
	r.rewrite(q)
	return q
}

// scopeOf returns outer extended with the unaliased tables of q. Aliases
// of q shadow outer names.
func scopeOf(q *query.Query, outer map[string]struct{}) map[string]struct{} {
	scope := make(map[string]struct{}, len(outer)+1+len(q.Joins))
	for name := range outer {
		scope[name] = struct{}{}
	}
	add := func(table query.Expr, alias string) {
		if alias != "" {
			delete(scope, alias)
			return
		}
		if id, ok := table.(query.Identifier); ok {
			scope[string(id)] = struct{}{}
		}
	}
	add(q.Table, q.TableAlias)
	for _, j := range q.Joins {
		add(j.Table, j.TableAlias)
	}
	return scope
}
