package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url without padding

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	_, err = GenerateToken(0)
	require.Error(t, err)
	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("opaque-token")
	require.Len(t, fp, 43) // SHA-256 base64url without padding
	require.Equal(t, fp, FingerprintToken("opaque-token"), "fingerprints are deterministic")
	require.NotEqual(t, fp, FingerprintToken("opaque-token2"))
}

func TestParseEd25519KeyRoundTrip(t *testing.T) {
	pemKey, err := GenerateEd25519Key()
	require.NoError(t, err)

	key, err := ParseEd25519Key(pemKey)
	require.NoError(t, err)
	require.Len(t, key, 64)

	_, err = ParseEd25519Key([]byte("not a pem block"))
	require.Error(t, err)
}
