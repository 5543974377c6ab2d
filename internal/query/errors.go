package query

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidArgumentError reports a builder argument of the wrong shape.
type InvalidArgumentError struct {
	// Param names the offending parameter (e.g. "Argument $column").
	Param string

	// Value is the received value.
	Value any

	// Expected lists the accepted type names.
	Expected []string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s expected to be %s, %s given",
		e.Param, strings.Join(e.Expected, " or "), describeValue(e.Value))
}

// InvalidReturnValueError reports a callback that returned something other
// than nil or a *Query.
type InvalidReturnValueError struct {
	Param    string
	Value    any
	Expected []string
}

// Error implements the error interface.
func (e *InvalidReturnValueError) Error() string {
	return fmt.Sprintf("return value of %s expected to be %s, %s returned",
		e.Param, strings.Join(e.Expected, " or "), describeValue(e.Value))
}

// IsInvalidArgument returns true if err is or wraps an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ie *InvalidArgumentError
	return errors.As(err, &ie)
}

// IsInvalidReturnValue returns true if err is or wraps an
// InvalidReturnValueError.
func IsInvalidReturnValue(err error) bool {
	var re *InvalidReturnValueError
	return errors.As(err, &re)
}

// ErrorHandler receives every error raised while building a query. The
// returned error is kept by the query; returning nil suppresses it.
type ErrorHandler func(err error) error

// Rethrow is the default ErrorHandler: the error is kept unchanged.
func Rethrow(err error) error {
	return err
}

// Collector is an ErrorHandler that records errors instead of keeping them,
// so the builder continues past bad arguments.
type Collector struct {
	Errors []error
}

// Handle implements ErrorHandler.
func (c *Collector) Handle(err error) error {
	c.Errors = append(c.Errors, err)
	return nil
}

// Err joins the collected errors, or returns nil if there are none.
func (c *Collector) Err() error {
	return errors.Join(c.Errors...)
}

func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("string(%q)", val)
	case *Query:
		return "*query.Query"
	default:
		return fmt.Sprintf("%T(%v)", v, v)
	}
}
