package scripting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateBool(t *testing.T) {
	e := New()
	e.SetVariable("replicas", 3)
	ok, err := e.EvaluateBool("replicas > 1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluateBoolWrongType(t *testing.T) {
	e := New()
	_, err := e.EvaluateBool("1 + 1")
	require.Error(t, err)
}

func TestEvaluateMap(t *testing.T) {
	e := New()
	e.SetVariable("tag", "1.2.3")
	m, err := e.EvaluateMap(`map("version", tag)`)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", m["version"])
}
