// =============================================================================
// Packing Slip Generator - Validation Engine
// =============================================================================
//
// Validation is narrow:
//   1. Row-level: every qualifying row must carry all required fields.
//   2. Group-level: rows of one order should share shipping details. The slip
//      prints the first row's details, so every difference is recorded.
//
// ERROR HANDLING:
//   - A missing field is fatal for the file (types.ErrMissingField).
//   - Group divergences are warnings unless strict mode is on, in which case
//     they become types.ErrConsistency.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is one reportable finding with its location.
type ValidationError struct {
	// Severity is "error" (fatal for the file) or "warning".
	Severity string

	// Field is the worksheet column name.
	Field string

	// Value is the offending value, if any.
	Value string

	// Rule names the violated rule: "required" or "consistent".
	Rule string

	// Message is a human-readable error message.
	Message string

	// OrderNumber is the order the finding belongs to, 0 if unknown.
	OrderNumber int64

	// RowNumber is the worksheet row number.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Order %d, Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.OrderNumber,
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their worksheet column name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("col")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateRow checks that every required field of a qualifying row is present.
//
// RETURNS:
//   - nil, or a *types.FieldError wrapping types.ErrMissingField for the
//     first missing column in worksheet order.
func ValidateRow(raw types.RawLineItem) error {
	err := validate.Struct(raw)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &types.FieldError{
			Kind:   types.ErrMissingField,
			Row:    raw.Row,
			Column: fieldErrs[0].Field(),
		}
	}
	return fmt.Errorf("validate row %d: %w", raw.Row, err)
}

// =============================================================================
// GROUP VALIDATION
// =============================================================================

// shippingField extracts one shipping attribute for comparison.
type shippingField struct {
	name  string
	value func(types.LineItem) string
}

var shippingFields = []shippingField{
	{"Date of Order", func(li types.LineItem) string { return li.OrderDate.Format("2006-01-02") }},
	{"Ship_Addressee", func(li types.LineItem) string { return li.Addressee }},
	{"Ship_Address Line 1", func(li types.LineItem) string { return li.AddressLine1 }},
	{"Ship_City", func(li types.LineItem) string { return li.City }},
	{"Ship_State", func(li types.LineItem) string { return li.State }},
	{"Ship_Postcode", func(li types.LineItem) string { return strconv.FormatInt(li.Postcode, 10) }},
	{"Phone", func(li types.LineItem) string { return strconv.FormatInt(li.Phone, 10) }},
}

// CheckGroup compares every item's shipping fields with the group's Meta row.
func CheckGroup(g types.OrderGroup) []types.Divergence {
	var out []types.Divergence
	for _, item := range g.Items {
		if item.SourceRow == g.Meta.SourceRow {
			continue
		}
		for _, f := range shippingFields {
			want, got := f.value(g.Meta), f.value(item)
			if want == got {
				continue
			}
			out = append(out, types.Divergence{
				OrderNumber: g.OrderNumber,
				Field:       f.name,
				Row:         item.SourceRow,
				MetaRow:     g.Meta.SourceRow,
				MetaValue:   want,
				Value:       got,
			})
		}
	}
	return out
}

// ConsistencyError turns a group's divergences into a fatal error, or nil
// when there are none.
func ConsistencyError(orderNumber int64, divs []types.Divergence) error {
	if len(divs) == 0 {
		return nil
	}
	return &types.GroupError{OrderNumber: orderNumber, Divergences: divs}
}

// Warnings converts divergences into reportable warnings.
func Warnings(divs []types.Divergence) []*ValidationError {
	out := make([]*ValidationError, 0, len(divs))
	for _, d := range divs {
		out = append(out, &ValidationError{
			Severity:    "warning",
			Field:       d.Field,
			Value:       d.Value,
			Rule:        "consistent",
			Message:     fmt.Sprintf("differs from row %d (%q); slip uses row %d", d.MetaRow, d.MetaValue, d.MetaRow),
			OrderNumber: d.OrderNumber,
			RowNumber:   d.Row,
		})
	}
	return out
}
