package rules

import (
	"reflect"
	"strings"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// Required is the presence rule: it fails for absent values, zero values,
// whitespace-only strings and empty collections.
func Required() *validation.Rule {
	return validation.Sync("validation.required", func(_ validation.Context, value any) validation.Verdict {
		v := indirect(value)
		if !v.IsValid() {
			return validation.Fail("")
		}
		switch v.Kind() {
		case reflect.String:
			return validation.Check(strings.TrimSpace(v.String()) != "")
		case reflect.Slice, reflect.Map, reflect.Array:
			return validation.Check(v.Len() > 0)
		default:
			return validation.Check(!v.IsZero())
		}
	}, validation.AsRequired(), validation.WithMessage("field is required"))
}
