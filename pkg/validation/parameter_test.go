package validation_test

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

func TestValidator_Parameter(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		_, err := newValidator(t).Parameter(validation.Param[int](""))
		assert.ErrorIs(t, err, validation.ErrEmptyParameterName)
		assert.True(t, validation.IsConfigurationFault(err))
	})

	t.Run("rejects missing type", func(t *testing.T) {
		t.Parallel()
		_, err := newValidator(t).Parameter(validation.ParamOf("id", nil))
		assert.ErrorIs(t, err, validation.ErrMissingParameterType)
	})

	t.Run("exposes metadata", func(t *testing.T) {
		t.Parallel()
		req, limit := required(), maxLen(3)
		p, err := newValidator(t).Parameter(validation.Param[string]("code", limit, req).WithDisplayName("Code"))
		require.NoError(t, err)

		assert.Equal(t, "code", p.Name())
		assert.Equal(t, "Code", p.DisplayName())
		assert.Equal(t, reflect.TypeFor[string](), p.Type())
		assert.Same(t, req, p.RequiredRule())
		assert.Equal(t, []*validation.Rule{limit}, p.Rules())
	})

	t.Run("first required rule wins", func(t *testing.T) {
		t.Parallel()
		first, second := required(), required()
		p, err := newValidator(t).Parameter(validation.Param[string]("code", first, second))
		require.NoError(t, err)

		assert.Same(t, first, p.RequiredRule())
		assert.Equal(t, []*validation.Rule{second}, p.Rules())
	})
}

func TestParameter_Validate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("absent value runs only the required rule", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		p, err := newValidator(t).Parameter(validation.Param[*string]("note", counting("other", &calls, false), required()))
		require.NoError(t, err)

		res, err := p.Validate(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Len())
		assert.Equal(t, []string{"is required"}, res.Messages("note"))
		assert.Zero(t, calls.Load())
	})

	t.Run("absent value without required rule passes", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		p, err := newValidator(t).Parameter(validation.Param[*string]("note", counting("other", &calls, false)))
		require.NoError(t, err)

		res, err := p.Validate(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Zero(t, calls.Load())
	})

	t.Run("typed nil counts as absent", func(t *testing.T) {
		t.Parallel()
		p, err := newValidator(t).Parameter(validation.Param[*Item]("item", required()))
		require.NoError(t, err)

		res, err := p.Validate(ctx, (*Item)(nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"item"}, res.Paths())
	})

	t.Run("present value runs required rule first", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		p, err := newValidator(t).Parameter(validation.Param[string]("code", counting("other", &calls, false), required()))
		require.NoError(t, err)

		res, err := p.Validate(ctx, "")
		require.NoError(t, err)
		outcomes := res.Lookup("code")
		require.Len(t, outcomes, 2)
		assert.Equal(t, "required", outcomes[0].Rule.Name())
		assert.Equal(t, "other", outcomes[1].Rule.Name())
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("records under the top level identifier", func(t *testing.T) {
		t.Parallel()
		p, err := newValidator(t).Parameter(validation.Param[string]("name", maxLen(2)))
		require.NoError(t, err)

		res, err := p.Validate(ctx, "abc")
		require.NoError(t, err)
		outcomes := res.Get(validation.TopLevel("name"))
		require.Len(t, outcomes, 1)
		assert.Equal(t, "name", outcomes[0].Key())
	})

	t.Run("returns nil when nothing failed", func(t *testing.T) {
		t.Parallel()
		p, err := newValidator(t).Parameter(validation.Param[string]("name", required(), maxLen(5)))
		require.NoError(t, err)

		res, err := p.Validate(ctx, "ok")
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("merges direct and nested failures", func(t *testing.T) {
		t.Parallel()
		reject := validation.Sync("reject", func(validation.Context, any) validation.Verdict {
			return validation.Fail("rejected")
		})
		p, err := newValidator(t).Parameter(validation.Param[Item]("item", reject))
		require.NoError(t, err)

		res, err := p.Validate(ctx, Item{})
		require.NoError(t, err)
		all := res.All()
		require.Len(t, all, 2)
		assert.Equal(t, "item", all[0].Key())
		assert.Equal(t, "item.tag", all[1].Key())
	})

	t.Run("type mismatch is a configuration fault", func(t *testing.T) {
		t.Parallel()
		p, err := newValidator(t).Parameter(validation.Param[int]("id"))
		require.NoError(t, err)

		res, err := p.Validate(ctx, "3")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, validation.ErrTypeMismatch)
		assert.True(t, validation.IsConfigurationFault(err))
	})

	t.Run("interface types accept implementations", func(t *testing.T) {
		t.Parallel()
		p, err := newValidator(t).Parameter(validation.Param[any]("payload"))
		require.NoError(t, err)

		res, err := p.Validate(ctx, &Item{})
		require.NoError(t, err)
		assert.Equal(t, []string{"payload.tag"}, res.Paths())
	})

	t.Run("sync path honours the async policy", func(t *testing.T) {
		t.Parallel()
		v := newValidator(t, validation.WithAsyncPolicy(validation.AsyncIgnore))
		p, err := v.Parameter(validation.Param[string]("email", resolvedAsync("unique", false)))
		require.NoError(t, err)

		res, err := p.ValidateSync("taken@example.com")
		require.NoError(t, err)
		assert.Nil(t, res)

		res, err = p.Validate(ctx, "taken@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"rejected remotely"}, res.Messages("email"))
	})
}
