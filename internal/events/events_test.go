package events

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateShortUnaffected(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello"))
}

func TestTruncateLongCapped(t *testing.T) {
	long := strings.Repeat("a", 2000)
	got := Truncate(long)
	require.LessOrEqual(t, len(got), maxNoteLen)
	require.Contains(t, got, "truncated")
}
