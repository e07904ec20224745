package rules

import (
	"context"

	"github.com/dmitrymomot/validkit/pkg/async"
	"github.com/dmitrymomot/validkit/pkg/validation"
)

// LookupFunc reports whether value is acceptable. Returning an error aborts
// validation of the whole call.
type LookupFunc func(ctx context.Context, value any) (bool, error)

// Lookup adapts a blocking check, typically a remote call, into an
// asynchronous rule. fn runs on its own goroutine and receives the
// validation context for cancellation.
func Lookup(name string, fn LookupFunc, opts ...validation.RuleOption) *validation.Rule {
	return validation.Async(name, func(ctx context.Context, _ validation.Context, value any) *async.Future[validation.Verdict] {
		return async.Async(ctx, value, func(ctx context.Context, value any) (validation.Verdict, error) {
			ok, err := fn(ctx, value)
			if err != nil {
				return validation.Verdict{}, err
			}
			return validation.Check(ok), nil
		})
	}, opts...)
}
