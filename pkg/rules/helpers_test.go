package rules_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

var anyType = reflect.TypeFor[any]()

func newValidator(t *testing.T, opts ...validation.Option) *validation.Validator {
	t.Helper()
	v, err := validation.New(validation.StaticDiscovery{}, validation.SkipNone, opts...)
	require.NoError(t, err)
	return v
}
