package transfer

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrBadToken is returned for tokens that cannot possibly have been issued.
var ErrBadToken = errors.New(ErrMsgBadToken)

// GenerateClaimToken returns a new random claim token. Tokens are the only
// addressing for a transfer grant, so they come from crypto/rand rather
// than a seeded PRNG.
func GenerateClaimToken() (string, error) {
	var b strings.Builder
	b.Grow(ClaimTokenLength)

	max := big.NewInt(int64(len(ClaimTokenAlphabet)))
	for i := 0; i < ClaimTokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate claim token: %w", err)
		}
		b.WriteByte(ClaimTokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ValidateClaimToken checks shape only: length and alphabet membership.
// It says nothing about whether the token exists.
func ValidateClaimToken(token string) error {
	if len(token) != ClaimTokenLength {
		return fmt.Errorf("%w: want %d characters, got %d", ErrBadToken, ClaimTokenLength, len(token))
	}
	for i := 0; i < len(token); i++ {
		if !strings.ContainsRune(ClaimTokenAlphabet, rune(token[i])) {
			return fmt.Errorf("%w: unexpected character at position %d", ErrBadToken, i)
		}
	}
	return nil
}
