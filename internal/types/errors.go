package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every conversion failure wraps exactly one of these.
var (
	ErrSchema       = errors.New("schema error")
	ErrTypeCoercion = errors.New("type coercion error")
	ErrMissingField = errors.New("missing required field")
	ErrConsistency  = errors.New("inconsistent order group")
)

// SchemaError reports a worksheet that cannot produce line items at all.
type SchemaError struct {
	Sheet   string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema error: sheet %q is missing column(s): %s", e.Sheet, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema error: sheet %q: %s", e.Sheet, e.Reason)
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// FieldError reports a single cell that failed presence or type checks.
type FieldError struct {
	Kind   error
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%v: row %d, column %q", e.Kind, e.Row, e.Column)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// GroupError reports an order whose rows disagree on shipping details.
type GroupError struct {
	OrderNumber int64
	Divergences []Divergence
}

func (e *GroupError) Error() string {
	if len(e.Divergences) == 0 {
		return fmt.Sprintf("%v: order %d", ErrConsistency, e.OrderNumber)
	}
	d := e.Divergences[0]
	return fmt.Sprintf("%v: order %d has %d shipping field(s) differing from row %d (first: %s on row %d is %q, expected %q)",
		ErrConsistency, e.OrderNumber, len(e.Divergences), d.MetaRow, d.Field, d.Row, d.Value, d.MetaValue)
}

// Is reports whether target is ErrConsistency.
func (e *GroupError) Is(target error) bool {
	return target == ErrConsistency
}

// KindOf names the error kind of err for reports and error logs.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchema):
		return "SchemaError"
	case errors.Is(err, ErrTypeCoercion):
		return "TypeCoercionError"
	case errors.Is(err, ErrMissingField):
		return "MissingFieldError"
	case errors.Is(err, ErrConsistency):
		return "ConsistencyError"
	default:
		return "Error"
	}
}
