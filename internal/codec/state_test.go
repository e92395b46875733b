package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte(`{"resources":[{"type":"helm_release","instances":1}]}`)

	encoded, err := EncodeState(raw)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestDecodeStateEmpty(t *testing.T) {
	decoded, err := DecodeState("")
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestDecodeStateInvalidBase64(t *testing.T) {
	_, err := DecodeState("not-valid-base64!!")
	require.Error(t, err)
}
