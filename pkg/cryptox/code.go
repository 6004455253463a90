package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VerificationCodeLength is the number of digits in an email verification code.
const VerificationCodeLength = 6

// GenerateVerificationCode returns a random numeric code of
// VerificationCodeLength digits, drawn from crypto/rand. Leading zeros are
// allowed ("012345" is a valid code).
func GenerateVerificationCode() (string, error) {
	const digits = "0123456789"

	code := make([]byte, VerificationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate verification code: %w", err)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

// ValidVerificationCode reports whether s has the exact shape of a
// verification code: VerificationCodeLength ASCII digits, nothing else.
func ValidVerificationCode(s string) bool {
	if len(s) != VerificationCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
