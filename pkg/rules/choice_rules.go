package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// OneOf requires the value to equal one of options.
func OneOf[T comparable](options ...T) *validation.Rule {
	return choiceRule("validation.in_list", "must be one of: %s", options, true)
}

// NoneOf rejects values equal to any of options.
func NoneOf[T comparable](options ...T) *validation.Rule {
	return choiceRule("validation.not_in_list", "must not be one of: %s", options, false)
}

func choiceRule[T comparable](key, format string, options []T, member bool) *validation.Rule {
	options = slices.Clone(options)
	list := make([]string, len(options))
	for i, o := range options {
		list[i] = fmt.Sprint(o)
	}
	joined := strings.Join(list, ", ")

	return validation.Sync(key, func(_ validation.Context, value any) validation.Verdict {
		v := indirect(value)
		if !v.IsValid() {
			return validation.Fail("")
		}
		typed, ok := v.Interface().(T)
		if !ok {
			return validation.Fail(fmt.Sprintf("must be of type %T", *new(T)))
		}
		return validation.Check(slices.Contains(options, typed) == member)
	}, validation.WithMessage(fmt.Sprintf(format, joined)), validation.WithArgs(map[string]any{"values": joined}))
}
