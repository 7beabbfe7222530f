package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const temporaryPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTemporaryPassword returns a random password of length n drawn from an
// alphabet without look-alike characters.
func GenerateTemporaryPassword(n int) (string, error) {
	out := make([]byte, n)
	size := big.NewInt(int64(len(temporaryPasswordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		out[i] = temporaryPasswordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
