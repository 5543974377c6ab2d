package grammar

import "errors"

// subqueryPrefix marks errors raised while compiling a nested query.
const subqueryPrefix = "error in subquery: "

// InvalidQueryError reports a query that is not a coherent statement.
type InvalidQueryError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InvalidQueryError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *InvalidQueryError) Unwrap() error {
	return e.Cause
}

// IsInvalidQuery returns true if err is or wraps an InvalidQueryError.
func IsInvalidQuery(err error) bool {
	var qe *InvalidQueryError
	return errors.As(err, &qe)
}

func invalidQuery(message string) *InvalidQueryError {
	return &InvalidQueryError{Message: message}
}

// wrapSubqueryError prefixes err to show it comes from a nested query.
func wrapSubqueryError(err error) *InvalidQueryError {
	return &InvalidQueryError{Message: subqueryPrefix + err.Error(), Cause: err}
}
