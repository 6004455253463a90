package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := HashSecret("s3cret-value")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifySecret("s3cret-value", hash))
	require.ErrorIs(t, VerifySecret("wrong-value", hash), ErrSecretMismatch)
}

func TestHashSecretSaltsDiffer(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	h1, err := HashSecret("same-input")
	require.NoError(t, err)
	h2, err := HashSecret("same-input")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "each hash must use a fresh salt")
	require.NoError(t, VerifySecret("same-input", h1))
	require.NoError(t, VerifySecret("same-input", h2))
}

func TestVerifySecretRejectsMalformedHash(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	cases := []string{
		"",
		"not-a-phc-string",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		err := VerifySecret("anything", encoded)
		require.Error(t, err, "hash %q should be rejected", encoded)
		require.NotErrorIs(t, err, ErrSecretMismatch)
	}
}
