package discount

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NewTokenCode returns a human-shareable code of two 4-character uppercase
// alphanumeric groups separated by a hyphen, e.g. "K3QF-9XAB".
func NewTokenCode() (string, error) {
	left, err := randomCode(4)
	if err != nil {
		return "", err
	}
	right, err := randomCode(4)
	if err != nil {
		return "", err
	}
	return left + "-" + right, nil
}

// NewConfirmationCode returns the 8-character uppercase code a business uses
// to acknowledge a redemption.
func NewConfirmationCode() (string, error) {
	return randomCode(8)
}
