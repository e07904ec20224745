package tags_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/async"
	"github.com/dmitrymomot/validkit/pkg/validation"
	"github.com/dmitrymomot/validkit/pkg/validation/tags"
)

type Address struct {
	City string `json:"city" validate:"required,max=10"`
}

type Audit struct {
	CreatedBy string `json:"created_by" validate:"required"`
}

type Internal struct {
	Token string `validate:"required"`
}

type Account struct {
	Audit
	*Internal `validate:"-"`
	Email     string   `json:"email,omitempty" validate:"required,email" display:"E-mail"`
	Nick      string   `json:"nick" validate:"omitempty,min=3"`
	Age       *int     `json:"age" validate:"omitempty,gte=18"`
	Address   *Address `json:"address"`
	Secret    string   `json:"-" validate:"-"`
	note      string
}

func ptr[T any](v T) *T { return &v }

func TestDiscovery_Describe(t *testing.T) {
	t.Parallel()

	d, err := tags.New()
	require.NoError(t, err)

	descs, err := d.Describe(reflect.TypeFor[Account]())
	require.NoError(t, err)

	names := make([]string, len(descs))
	for i, desc := range descs {
		names[i] = desc.Name
	}
	assert.Equal(t, []string{"created_by", "email", "nick", "age", "address"}, names)

	t.Run("promoted members keep their full index", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []int{0, 0}, descs[0].Index)
	})

	t.Run("display names come from the display tag", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "E-mail", descs[1].DisplayName)
		assert.Empty(t, descs[2].DisplayName)
	})

	t.Run("tokens become rules in order", func(t *testing.T) {
		t.Parallel()
		require.Len(t, descs[1].Rules, 2)
		assert.Equal(t, "validation.required", descs[1].Rules[0].Name())
		assert.True(t, descs[1].Rules[0].IsRequired())
		assert.Equal(t, "validation.email", descs[1].Rules[1].Name())

		require.Len(t, descs[2].Rules, 1)
		assert.Equal(t, "validation.min", descs[2].Rules[0].Name())
		assert.Equal(t, map[string]any{"param": "3"}, descs[2].Rules[0].Args())
	})

	t.Run("untagged members are returned without rules", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, descs[4].Rules)
	})

	t.Run("descriptors are cached", func(t *testing.T) {
		t.Parallel()
		again, err := d.Describe(reflect.TypeFor[Account]())
		require.NoError(t, err)
		assert.Equal(t, descs, again)
	})
}

func TestDiscovery_Errors(t *testing.T) {
	t.Parallel()

	d, err := tags.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		typ  reflect.Type
		want error
	}{
		{
			name: "unknown tag",
			typ: reflect.TypeFor[struct {
				A string `validate:"shiny"`
			}](),
			want: tags.ErrUnknownTag,
		},
		{
			name: "malformed parameter",
			typ: reflect.TypeFor[struct {
				A string `validate:"max=lots"`
			}](),
			want: tags.ErrInvalidTag,
		},
		{
			name: "dive",
			typ: reflect.TypeFor[struct {
				A []string `validate:"dive,required"`
			}](),
			want: tags.ErrUnsupportedTag,
		},
		{
			name: "cross field",
			typ: reflect.TypeFor[struct {
				A string
				B string `validate:"eqfield=A"`
			}](),
			want: tags.ErrUnsupportedTag,
		},
		{
			name: "not a struct",
			typ:  reflect.TypeFor[string](),
			want: tags.ErrNotStruct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := d.Describe(tt.typ)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("engine reports discovery errors as configuration faults", func(t *testing.T) {
		t.Parallel()
		v, err := validation.New(d, validation.SkipNone)
		require.NoError(t, err)

		_, err = v.Validate(context.Background(), struct {
			A string `validate:"shiny"`
		}{})
		assert.True(t, validation.IsConfigurationFault(err))
		assert.ErrorIs(t, err, validation.ErrDiscovery)
		assert.ErrorIs(t, err, tags.ErrUnknownTag)
	})
}

func TestDiscovery_Validate(t *testing.T) {
	t.Parallel()

	d, err := tags.New()
	require.NoError(t, err)
	v, err := validation.New(d, validation.SkipNone)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("reports failures at json paths", func(t *testing.T) {
		t.Parallel()
		res, err := v.Validate(ctx, Account{
			Email:   "not-an-email",
			Nick:    "ab",
			Age:     ptr(10),
			Address: &Address{},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"address.city", "age", "created_by", "email", "nick"}, res.Paths())

		email := res.Lookup("email")
		require.Len(t, email, 1)
		assert.Equal(t, "must be a valid email address", email[0].Message)
		assert.Equal(t, "E-mail", email[0].Args["field"])
	})

	t.Run("omitempty skips zero values", func(t *testing.T) {
		t.Parallel()
		res, err := v.Validate(ctx, &Account{Audit: Audit{CreatedBy: "root"}, Email: "a@example.com"})
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("omitempty dereferences pointers", func(t *testing.T) {
		t.Parallel()
		base := Account{Audit: Audit{CreatedBy: "root"}, Email: "a@example.com"}

		zero := base
		zero.Age = ptr(0)
		res, err := v.Validate(ctx, &zero)
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())

		minor := base
		minor.Age = ptr(16)
		res, err = v.Validate(ctx, &minor)
		require.NoError(t, err)
		assert.Equal(t, []string{"age"}, res.Paths())
	})

	t.Run("hidden members are not validated", func(t *testing.T) {
		t.Parallel()
		res, err := v.Validate(ctx, &Account{
			Audit:    Audit{CreatedBy: "root"},
			Internal: &Internal{},
			Email:    "a@example.com",
		})
		require.NoError(t, err)
		assert.False(t, res.Has("Token"))
	})

	t.Run("nested values are checked through parameters", func(t *testing.T) {
		t.Parallel()
		set, err := validation.NewParameterSet(v, validation.Param[*Address]("address"))
		require.NoError(t, err)

		failures, err := set.ValidateAll(ctx, map[string]any{"address": &Address{City: "Llanfairpwllgwyngyll"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"address.city"}, failures.Paths())
	})
}

func TestDiscovery_CustomRules(t *testing.T) {
	t.Parallel()

	type SignUp struct {
		Email string `json:"email" validate:"required,unique_email"`
		Seats int    `json:"seats" validate:"even"`
	}

	taken := validation.Async("validation.unique", func(_ context.Context, _ validation.Context, value any) *async.Future[validation.Verdict] {
		return async.Resolved(validation.Check(value != "taken@example.com"))
	}, validation.WithMessage("is already taken"))

	d, err := tags.New(
		tags.WithRule("unique_email", taken),
		tags.WithValidation("even", func(fl validator.FieldLevel) bool { return fl.Field().Int()%2 == 0 }),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"unique_email"}, d.Tags())

	v, err := validation.New(d, validation.SkipNone, validation.WithAsyncPolicy(validation.AsyncIgnore))
	require.NoError(t, err)

	t.Run("async rule is awaited", func(t *testing.T) {
		t.Parallel()
		res, err := v.Validate(context.Background(), SignUp{Email: "taken@example.com", Seats: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"is already taken"}, res.Messages("email"))
		assert.Equal(t, []string{"failed even validation"}, res.Messages("seats"))
	})

	t.Run("async rule follows the policy on sync paths", func(t *testing.T) {
		t.Parallel()
		res, err := v.ValidateSync(SignUp{Email: "taken@example.com", Seats: 2})
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("registered rules take no parameter", func(t *testing.T) {
		t.Parallel()
		_, err := d.Describe(reflect.TypeFor[struct {
			Email string `validate:"unique_email=x"`
		}]())
		assert.ErrorIs(t, err, tags.ErrInvalidTag)
	})

	t.Run("nil rule is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := tags.New(tags.WithRule("broken", nil))
		assert.ErrorIs(t, err, tags.ErrInvalidTag)
	})

	t.Run("invalid validation registration", func(t *testing.T) {
		t.Parallel()
		_, err := tags.New(tags.WithValidation("", func(validator.FieldLevel) bool { return true }))
		assert.ErrorIs(t, err, tags.ErrRegisterValidation)
	})
}

func TestCustomNameTags(t *testing.T) {
	t.Parallel()

	type Form struct {
		Title string `form:"title" check:"required" label:"Title"`
	}

	d, err := tags.New(tags.WithNameTag("form"), tags.WithRuleTag("check"), tags.WithDisplayTag("label"))
	require.NoError(t, err)

	descs, err := d.Describe(reflect.TypeFor[Form]())
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "title", descs[0].Name)
	assert.Equal(t, "Title", descs[0].DisplayName)
	require.Len(t, descs[0].Rules, 1)
	assert.True(t, descs[0].Rules[0].IsRequired())
}
