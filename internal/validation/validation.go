// Package validation turns loosely typed key/value input (form posts, JSON
// objects, TUI forms) into typed, constraint-checked request structs.
//
// A schema is a struct whose fields carry three tags:
//
//	form:"memberId"              input key, also used as the error path
//	validate:"gt=0"              go-playground/validator rules, run after coercion
//	message:"Valid member is required"   display message for constraint violations
//
// Supported field types are string, *string (nil when the key is absent),
// int64 and decimal.Decimal. Numeric fields are coerced from their string form;
// an empty or absent value coerces to zero so the constraint decides.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
)

// Values is raw, loosely typed input keyed by form field name.
type Values map[string]string

// FromForm keeps the first value of every key.
func FromForm(form url.Values) Values {
	v := make(Values, len(form))
	for k, vals := range form {
		if len(vals) > 0 {
			v[k] = vals[0]
		}
	}

	return v
}

// FromJSON stringifies the scalar members of a decoded JSON object. Nulls are
// treated as absent keys.
func FromJSON(m map[string]any) Values {
	v := make(Values, len(m))
	for k, raw := range m {
		switch x := raw.(type) {
		case nil:
			continue
		case string:
			v[k] = x
		case json.Number:
			v[k] = x.String()
		case float64:
			v[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			v[k] = strconv.FormatBool(x)
		default:
			v[k] = fmt.Sprint(x)
		}
	}

	return v
}

// Result is the outcome of SafeParse.
type Result[T any] struct {
	OK     bool
	Value  T
	Errors []apperr.FieldError
}

// Parse validates raw against schema T and returns the typed value or an
// *apperr.ValidationError listing every violation.
func Parse[T any](raw Values) (T, error) {
	res := SafeParse[T](raw)
	if !res.OK {
		var zero T
		return zero, &apperr.ValidationError{Fields: res.Errors}
	}

	return res.Value, nil
}

// SafeParse validates raw against schema T without returning an error value.
func SafeParse[T any](raw Values) Result[T] {
	var value T

	errs := check(raw, &value)
	if len(errs) > 0 {
		return Result[T]{Errors: errs}
	}

	return Result[T]{OK: true, Value: value}
}

var (
	decimalType = reflect.TypeFor[decimal.Decimal]()
	std         = newValidator()
)

// formatTags are rules whose violation is about shape rather than presence, so
// the field's message tag does not describe them.
var formatTags = map[string]bool{
	"datetime": true,
	"isodate":  true,
	"money":    true,
	"oneof":    true,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("form")
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	// Update requests carry *string fields where an empty value clears the
	// column. Non-nil pointers always count as present for omitempty.
	must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}

		_, err := time.Parse(DateLayout, s)

		return err == nil
	}))

	// Decimals reach rules as float64 through the custom type func above, so
	// money reads the original field to check for sub-cent digits exactly.
	must(v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, ok := fl.Parent().FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
		if !ok {
			return false
		}

		return d.Equal(d.Round(2))
	}))

	must(v.RegisterValidation("email_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()

		return s == "" || v.Var(s, "email") == nil
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func check(raw Values, dst any) []apperr.FieldError {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("validation: schema %s is not a struct", rt))
	}

	coerceErrs := make(map[string]string)

	for i := range rt.NumField() {
		sf := rt.Field(i)

		key := sf.Tag.Get("form")
		if key == "" || key == "-" {
			continue
		}

		s, present := raw[key]
		if msg := coerce(rv.Field(i), s, present); msg != "" {
			coerceErrs[sf.Name] = msg
		}
	}

	ruleErrs := make(map[string]string)

	if err := std.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			panic(fmt.Sprintf("validation: %v", err))
		}

		for _, fe := range verrs {
			if _, seen := ruleErrs[fe.StructField()]; seen {
				continue
			}

			sf, _ := rt.FieldByName(fe.StructField())
			ruleErrs[fe.StructField()] = message(sf, fe)
		}
	}

	var out []apperr.FieldError

	for i := range rt.NumField() {
		sf := rt.Field(i)
		key := sf.Tag.Get("form")

		if msg, ok := coerceErrs[sf.Name]; ok {
			out = append(out, apperr.FieldError{Field: key, Message: msg})
			continue
		}

		if msg, ok := ruleErrs[sf.Name]; ok {
			out = append(out, apperr.FieldError{Field: key, Message: msg})
		}
	}

	return out
}

// coerce stores s into field and returns a message when s cannot be converted.
func coerce(field reflect.Value, s string, present bool) string {
	switch {
	case field.Type() == decimalType:
		s = strings.TrimSpace(s)
		if s == "" {
			field.Set(reflect.ValueOf(decimal.Zero))
			return ""
		}

		d, err := decimal.NewFromString(s)
		if err != nil {
			return "Expected number"
		}

		field.Set(reflect.ValueOf(d))

	case field.Kind() == reflect.Int64:
		s = strings.TrimSpace(s)
		if s == "" {
			field.SetInt(0)
			return ""
		}

		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			if _, derr := decimal.NewFromString(s); derr == nil {
				return "Expected integer"
			}

			return "Expected number"
		}

		field.SetInt(n)

	case field.Kind() == reflect.String:
		field.SetString(s)

	case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.String:
		if !present {
			field.SetZero()
			return ""
		}

		field.Set(reflect.ValueOf(&s))

	default:
		panic(fmt.Sprintf("validation: unsupported field type %s", field.Type()))
	}

	return ""
}

func message(sf reflect.StructField, fe validator.FieldError) string {
	if msg := sf.Tag.Get("message"); msg != "" && !formatTags[fe.Tag()] {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "Required"
	case "email", "email_or_empty":
		return "Invalid email"
	case "oneof":
		return "Expected one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "datetime", "isodate":
		return "Expected a date in YYYY-MM-DD format"
	case "money":
		return "At most two decimal places"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	case "min":
		return "Must not be empty"
	}

	return "Invalid value"
}
