package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "timed out" }

func TestNew(t *testing.T) {
	err := New("something broke")
	require.Error(t, err)
	assert.Equal(t, "something broke", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("Success_PreservesChain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "keyspace lookup")
		require.Error(t, wrapped)
		assert.Equal(t, "keyspace lookup: not found", wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrNotFound)
	})

	t.Run("Success_NilPassesThrough", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
	})
}

func TestWrapf(t *testing.T) {
	t.Run("Success_FormatsMessage", func(t *testing.T) {
		wrapped := Wrapf(ErrInvalidInput, "entry %d", 3)
		require.Error(t, wrapped)
		assert.Equal(t, "entry 3: invalid input", wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrInvalidInput)
	})

	t.Run("Success_NilPassesThrough", func(t *testing.T) {
		assert.NoError(t, Wrapf(nil, "ignored %d", 3))
	})
}

// Domain packages wrap a base error once to declare their own sentinel, then
// wrap that sentinel again per call site. Both layers must stay visible.
func TestWrap_TwoLevels(t *testing.T) {
	sentinel := Wrap(ErrInvalidInput, "token is not valid")
	callSite := Wrapf(sentinel, "keyspace %q", "users")

	assert.ErrorIs(t, callSite, sentinel)
	assert.ErrorIs(t, callSite, ErrInvalidInput)
	assert.NotErrorIs(t, callSite, ErrUnauthorized)
	assert.Equal(t, `keyspace "users": token is not valid: invalid input`, callSite.Error())
}

func TestIs(t *testing.T) {
	assert.True(t, Is(ErrForbidden, ErrForbidden))
	assert.True(t, Is(Wrap(ErrForbidden, "policy denied"), ErrForbidden))
	assert.False(t, Is(ErrForbidden, ErrUnauthorized))
}

func TestAs(t *testing.T) {
	wrapped := Wrap(timeoutError{}, "kms unwrap")

	var target timeoutError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "timed out", target.Error())
}

func TestBaseErrorMessages(t *testing.T) {
	for _, tt := range []struct {
		err  error
		text string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
	} {
		assert.Equal(t, tt.text, tt.err.Error())
	}
}

// The base errors are compared by identity all over the codebase, so they must
// behave as sentinels rather than formatted values.
func TestBaseErrorsAreDistinct(t *testing.T) {
	bases := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized, ErrForbidden}
	for i, a := range bases {
		for j, b := range bases {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}
