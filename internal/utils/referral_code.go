package utils

import (
	"crypto/rand"
	"fmt"
)

// referralAlphabet avoids ambiguous characters (0/O, 1/I/L) since codes get
// read over the phone and typed by hand.
const referralAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateReferralCode generates a cryptographically random referral code of
// the given length. Uniqueness is enforced by the database constraint; the
// caller retries on duplicates.
func GenerateReferralCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, v := range b {
		b[i] = referralAlphabet[int(v)%len(referralAlphabet)]
	}
	return string(b), nil
}
