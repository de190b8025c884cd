package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Alphabet without 0/O/1/I/L, so a code read off a screen survives retyping.
const recoveryCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const RecoveryCodeLength = 12

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// NewRecoveryCode returns a one-time account recovery code. The caller stores
// only a hash of it.
func NewRecoveryCode() (string, error) {
	return randomString(RecoveryCodeLength, recoveryCodeAlphabet)
}

// randomString draws each character with crypto/rand.Int, which rejects values
// outside the alphabet range instead of taking a biased modulo.
func randomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}
