package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

func TestParseAsyncPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want validation.AsyncPolicy
	}{
		{"throw", validation.AsyncThrow},
		{"IGNORE", validation.AsyncIgnore},
		{"try_sync", validation.AsyncTrySync},
		{" try-sync ", validation.AsyncTrySync},
		{"trysync", validation.AsyncTrySync},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := validation.ParseAsyncPolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		_, err := validation.ParseAsyncPolicy("maybe")
		assert.ErrorIs(t, err, validation.ErrInvalidAsyncPolicy)
	})
}

func TestAsyncPolicy_Text(t *testing.T) {
	t.Parallel()

	for _, p := range []validation.AsyncPolicy{validation.AsyncThrow, validation.AsyncIgnore, validation.AsyncTrySync} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var back validation.AsyncPolicy
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}

	_, err := validation.AsyncPolicy(7).MarshalText()
	assert.ErrorIs(t, err, validation.ErrInvalidAsyncPolicy)
	assert.Equal(t, "AsyncPolicy(7)", validation.AsyncPolicy(7).String())
}

// Not parallel: mutates the process-wide default.
func TestSetDefaultAsyncPolicy(t *testing.T) {
	prev := validation.DefaultAsyncPolicy()
	t.Cleanup(func() { _ = validation.SetDefaultAsyncPolicy(prev) })

	require.NoError(t, validation.SetDefaultAsyncPolicy(validation.AsyncIgnore))
	assert.Equal(t, validation.AsyncIgnore, validation.DefaultAsyncPolicy())

	v, err := validation.New(discovery(), validation.SkipNone)
	require.NoError(t, err)
	assert.Equal(t, validation.AsyncIgnore, v.AsyncPolicy())

	err = validation.SetDefaultAsyncPolicy(validation.AsyncPolicy(5))
	assert.ErrorIs(t, err, validation.ErrInvalidAsyncPolicy)
	assert.Equal(t, validation.AsyncIgnore, validation.DefaultAsyncPolicy())
}
