package rules

import (
	"fmt"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// MinLen requires at least min characters (runes) or elements.
func MinLen(min int) *validation.Rule {
	return lengthRule("validation.min_length", fmt.Sprintf("must be at least %d characters long", min),
		map[string]any{"min": min}, func(n int) bool { return n >= min })
}

// MaxLen allows at most max characters (runes) or elements.
func MaxLen(max int) *validation.Rule {
	return lengthRule("validation.max_length", fmt.Sprintf("must be at most %d characters long", max),
		map[string]any{"max": max}, func(n int) bool { return n <= max })
}

// Len requires exactly n characters (runes) or elements.
func Len(n int) *validation.Rule {
	return lengthRule("validation.exact_length", fmt.Sprintf("must be exactly %d characters long", n),
		map[string]any{"length": n}, func(got int) bool { return got == n })
}

func lengthRule(key, message string, args map[string]any, ok func(int) bool) *validation.Rule {
	return validation.Sync(key, func(_ validation.Context, value any) validation.Verdict {
		n, measurable := length(value)
		if !measurable {
			return validation.Fail("has no length")
		}
		return validation.Check(ok(n)).With("actual", n)
	}, validation.WithMessage(message), validation.WithArgs(args))
}
