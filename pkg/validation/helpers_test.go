package validation_test

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/async"
	"github.com/dmitrymomot/validkit/pkg/validation"
)

type Item struct {
	Tag  *string
	Name string
}

type Node struct {
	Label string
	Next  *Node
}

type Order struct {
	Items  []Item
	Labels map[string]*Item
	Owner  *Node
}

type Range struct {
	From int
	To   int
}

func ptr[T any](v T) *T { return &v }

func required() *validation.Rule {
	return validation.Sync("required", func(_ validation.Context, v any) validation.Verdict {
		return validation.Check(v != nil && !reflect.ValueOf(v).IsZero())
	}, validation.AsRequired(), validation.WithMessage("is required"))
}

func maxLen(n int) *validation.Rule {
	return validation.Sync("max_length", func(_ validation.Context, v any) validation.Verdict {
		s, _ := v.(string)
		return validation.Check(utf8.RuneCountInString(s) <= n)
	}, validation.WithMessage("is too long"), validation.WithArgs(map[string]any{"max": n}))
}

// counting wraps a rule body and records every invocation.
func counting(name string, calls *atomic.Int32, ok bool) *validation.Rule {
	return validation.Sync(name, func(_ validation.Context, _ any) validation.Verdict {
		calls.Add(1)
		return validation.Check(ok)
	})
}

func resolvedAsync(name string, ok bool) *validation.Rule {
	return validation.Async(name, func(_ context.Context, _ validation.Context, _ any) *async.Future[validation.Verdict] {
		return async.Resolved(validation.Verdict{Valid: ok})
	}, validation.WithMessage("rejected remotely"))
}

// blockingAsync never settles on its own; it finishes when ctx is done.
func blockingAsync(started chan<- struct{}) *validation.Rule {
	return validation.Async("slow", func(ctx context.Context, _ validation.Context, v any) *async.Future[validation.Verdict] {
		return async.Async(ctx, v, func(ctx context.Context, _ any) (validation.Verdict, error) {
			if started != nil {
				close(started)
			}
			<-ctx.Done()
			return validation.Verdict{}, ctx.Err()
		})
	})
}

func discovery() validation.StaticDiscovery {
	return validation.StaticDiscovery{
		reflect.TypeFor[Item](): {
			{Name: "tag", Index: []int{0}, Rules: []*validation.Rule{required()}},
			{Name: "name", Index: []int{1}, Rules: []*validation.Rule{maxLen(5)}},
		},
		reflect.TypeFor[Node](): {
			{Name: "label", Index: []int{0}, Rules: []*validation.Rule{required()}},
			{Name: "next", Index: []int{1}},
		},
		reflect.TypeFor[Order](): {
			{Name: "items", Index: []int{0}},
			{Name: "labels", Index: []int{1}},
			{Name: "owner", Index: []int{2}},
		},
	}
}

func newValidator(t testing.TB, opts ...validation.Option) *validation.Validator {
	t.Helper()
	v, err := validation.New(discovery(), validation.SkipNone, opts...)
	require.NoError(t, err)
	return v
}
