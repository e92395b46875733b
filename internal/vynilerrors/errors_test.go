package vynilerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := APIServer(cause, "get %s", "widget")
	require.Equal(t, "APIServerError: get widget: boom", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := RequirementUnsatisfied("crd %s missing", "foos.example.com")
	require.Equal(t, "RequirementUnsatisfied: crd foos.example.com missing", err.Error())
}

func TestClassOfUnwrapsWrappedError(t *testing.T) {
	inner := JobFailed("job %s failed", "install")
	wrapped := fmt.Errorf("reconcile failed: %w", inner)
	require.Equal(t, ClassJobFailed, ClassOf(wrapped))
}

func TestClassOfNonTaxonomyError(t *testing.T) {
	require.Equal(t, Class(""), ClassOf(errors.New("plain")))
	require.Equal(t, Class(""), ClassOf(nil))
}
