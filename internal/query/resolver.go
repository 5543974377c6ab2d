package query

// Closure builds a query on the seed it receives. It returns nil to use the
// seed itself, or another *Query to use instead.
type Closure func(q *Query) (any, error)

// Resolver turns callbacks into concrete queries.
//
// ResolveSubQuery seeds the callback with parent.MakeEmptyCopy() (blank table
// context: FROM, IN, EXISTS, value and limit subqueries).
// ResolveCriteriaGroup seeds it with parent.MakeCopyForCriteriaGroup()
// (inherits table and alias: WHERE and ON groups).
//
// Decorators replace the resolver to intercept every produced subquery.
// Seeds inherit the resolver of their parent, so interception is recursive.
type Resolver interface {
	ResolveSubQuery(parent *Query, fn Closure) (*Query, error)
	ResolveCriteriaGroup(parent *Query, fn Closure) (*Query, error)
}

// ClosureResolver is the default Resolver.
type ClosureResolver struct{}

// ResolveSubQuery implements Resolver.
func (ClosureResolver) ResolveSubQuery(parent *Query, fn Closure) (*Query, error) {
	return Resolve(parent.MakeEmptyCopy(), fn)
}

// ResolveCriteriaGroup implements Resolver.
func (ClosureResolver) ResolveCriteriaGroup(parent *Query, fn Closure) (*Query, error) {
	return Resolve(parent.MakeCopyForCriteriaGroup(), fn)
}

// Resolve invokes fn with seed and validates its result. A sticky error on
// the resulting query is returned as the resolution error.
func Resolve(seed *Query, fn Closure) (*Query, error) {
	result, err := fn(seed)
	if err != nil {
		return nil, err
	}
	q, err := checkReturnedQuery("the callback", result, seed)
	if err != nil {
		return nil, err
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	return q, nil
}

// checkReturnedQuery maps a callback result to a query: nil selects fallback.
func checkReturnedQuery(param string, result any, fallback *Query) (*Query, error) {
	switch r := result.(type) {
	case nil:
		return fallback, nil
	case *Query:
		if r == nil {
			return fallback, nil
		}
		return r, nil
	default:
		return nil, &InvalidReturnValueError{
			Param:    param,
			Value:    result,
			Expected: []string{"*query.Query", "nil"},
		}
	}
}

// AsClosure converts the callback shapes accepted by the builder into a
// Closure. Accepted shapes:
//
//	func(*Query)
//	func(*Query) error
//	func(*Query) *Query
//	func(*Query) (*Query, error)
//	func(*Query) any
//	func(*Query) (any, error)
func AsClosure(v any) (Closure, bool) {
	switch fn := v.(type) {
	case Closure:
		return fn, fn != nil
	case func(*Query) (any, error):
		return fn, fn != nil
	case func(*Query):
		if fn == nil {
			return nil, false
		}
		return func(q *Query) (any, error) {
			fn(q)
			return nil, nil
		}, true
	case func(*Query) error:
		if fn == nil {
			return nil, false
		}
		return func(q *Query) (any, error) {
			return nil, fn(q)
		}, true
	case func(*Query) *Query:
		if fn == nil {
			return nil, false
		}
		return func(q *Query) (any, error) {
			return fn(q), nil
		}, true
	case func(*Query) (*Query, error):
		if fn == nil {
			return nil, false
		}
		return func(q *Query) (any, error) {
			r, err := fn(q)
			return r, err
		}, true
	case func(*Query) any:
		if fn == nil {
			return nil, false
		}
		return func(q *Query) (any, error) {
			return fn(q), nil
		}, true
	default:
		return nil, false
	}
}
