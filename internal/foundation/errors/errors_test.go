package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "counter.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "counter.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.False(t, err.CanRetry())
		assert.True(t, err.IsFatal())
	})

	t.Run("Network failures are deferred to the next run", func(t *testing.T) {
		err := NetworkError("request failed").Build()

		assert.True(t, err.CanRetry())
		assert.False(t, err.IsFatal())
		assert.Equal(t, RetryNextRun, err.RetryStrategy())
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("connection refused")
	err := WrapError(originalErr, CategoryNetwork, "network failure").
		Warning().
		NextRun().
		WithContext("day", "2026-02-08").
		Build()

	assert.Equal(t, SeverityWarning, err.Severity())
	assert.ErrorIs(t, err, originalErr)
	assert.Contains(t, err.Error(), "[network:warning] network failure: connection refused")

	withMore := err.WithContext("domain", "example.org")
	day, _ := withMore.Context().GetString("day")
	domain, _ := withMore.Context().GetString("domain")
	assert.Equal(t, "2026-02-08", day)
	assert.Equal(t, "example.org", domain)
	_, leaked := err.Context().GetString("domain")
	assert.False(t, leaked)
}

func TestGetCategory(t *testing.T) {
	assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
	assert.Equal(t, CategoryState, GetCategory(StateError("bad").Build()))
	assert.True(t, errors.Is(StateError("bad").Build(), StateError("bad").Build()))
}
