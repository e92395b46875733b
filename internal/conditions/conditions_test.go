package conditions

import (
	"testing"

	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestOkThenFailed(t *testing.T) {
	var conds []metav1.Condition
	Ok(&conds, 1, "Installed", "applied")
	require.True(t, IsTrue(conds, "Installed"))

	Failed(&conds, 2, "Installed", "job failed")
	require.False(t, IsTrue(conds, "Installed"))
	c := Find(conds, "Installed")
	require.NotNil(t, c)
	require.Equal(t, "Failed", c.Reason)
	require.EqualValues(t, 2, c.ObservedGeneration)
}

func TestAllMaskedTrue(t *testing.T) {
	var conds []metav1.Condition
	mask := []string{"Installed", "AgentStarted", "Ready"}
	for _, t := range []string{"Installed", "AgentStarted"} {
		Ok(&conds, 1, t, "ok")
	}
	require.True(t, AllMaskedTrue(conds, mask, "Ready"))

	Failed(&conds, 1, "AgentStarted", "boom")
	require.False(t, AllMaskedTrue(conds, mask, "Ready"))
}

func TestExcludingTypes(t *testing.T) {
	var conds []metav1.Condition
	Ok(&conds, 1, "Ready", "ok")
	Ok(&conds, 1, "Installed", "ok")
	filtered := ExcludingTypes(conds, "Ready")
	require.Len(t, filtered, 1)
	require.Equal(t, "Installed", filtered[0].Type)
}
