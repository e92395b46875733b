package semverutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSatisfiesMinimum(t *testing.T) {
	ok, err := SatisfiesMinimum("1.4.0", "1.2.0")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = SatisfiesMinimum("1.1.0", "1.2.0")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSatisfiesMinimumEmptyPrevious(t *testing.T) {
	ok, err := SatisfiesMinimum("", "1.0.0")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSatisfiesMinimumBadConstraint(t *testing.T) {
	_, err := SatisfiesMinimum("1.0.0", "not-a-version")
	require.Error(t, err)
}
