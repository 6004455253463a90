package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.True(t, ValidVerificationCode(code), "generated code %q must be valid", code)
		seen[code] = struct{}{}
	}
	// 50 draws from a million-value space colliding down to a handful would
	// indicate a broken generator.
	require.Greater(t, len(seen), 40)
}

func TestValidVerificationCode(t *testing.T) {
	valid := []string{"000000", "123456", "999999", "012345"}
	for _, code := range valid {
		require.True(t, ValidVerificationCode(code), code)
	}

	invalid := []string{"", "12345", "1234567", "12345a", "12 456", "12345٠", "१२३४५६"}
	for _, code := range invalid {
		require.False(t, ValidVerificationCode(code), code)
	}
}
