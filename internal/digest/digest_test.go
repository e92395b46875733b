package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

func TestOptionsEmptyMatchesEmptyJSONObject(t *testing.T) {
	want := sha256.Sum256([]byte("{}"))
	got, err := Options(nil)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(want[:]), got)

	got2, err := Options(map[string]apiextensionsv1.JSON{})
	require.NoError(t, err)
	require.Equal(t, got, got2)
}

func TestOptionsStable(t *testing.T) {
	opts := map[string]apiextensionsv1.JSON{
		"replicas": {Raw: []byte(`3`)},
	}
	a, err := Options(opts)
	require.NoError(t, err)
	b, err := Options(opts)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestOptionsChangesWithContent(t *testing.T) {
	a, err := Options(map[string]apiextensionsv1.JSON{"replicas": {Raw: []byte(`3`)}})
	require.NoError(t, err)
	b, err := Options(map[string]apiextensionsv1.JSON{"replicas": {Raw: []byte(`4`)}})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
