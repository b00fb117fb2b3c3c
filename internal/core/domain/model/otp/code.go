package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a generated code.
const CodeLength = 6

// GenerateCode produces a uniformly random 6-digit numeric code using the
// crypto/rand source. Leading zeros are preserved ("042193" is valid).
func GenerateCode() (string, error) {
	maxValue := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		maxValue.Mul(maxValue, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, maxValue)
	if err != nil {
		return "", fmt.Errorf("generating OTP code: %w", err)
	}

	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
