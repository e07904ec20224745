package rules

import (
	"fmt"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// Min requires a numeric value greater than or equal to min.
func Min[T Numeric](min T) *validation.Rule {
	return numericRule("validation.min", fmt.Sprintf("must be at least %v", min),
		map[string]any{"min": min}, func(n float64) bool { return n >= float64(min) })
}

// Max requires a numeric value less than or equal to max.
func Max[T Numeric](max T) *validation.Rule {
	return numericRule("validation.max", fmt.Sprintf("must be at most %v", max),
		map[string]any{"max": max}, func(n float64) bool { return n <= float64(max) })
}

// Between requires min <= value <= max.
func Between[T Numeric](min, max T) *validation.Rule {
	return numericRule("validation.between", fmt.Sprintf("must be between %v and %v", min, max),
		map[string]any{"min": min, "max": max},
		func(n float64) bool { return n >= float64(min) && n <= float64(max) })
}

func numericRule(key, message string, args map[string]any, ok func(float64) bool) *validation.Rule {
	return validation.Sync(key, func(_ validation.Context, value any) validation.Verdict {
		n, numeric := number(value)
		if !numeric {
			return validation.Fail("must be a number")
		}
		return validation.Check(ok(n))
	}, validation.WithMessage(message), validation.WithArgs(args))
}
