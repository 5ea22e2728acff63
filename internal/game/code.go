package game

import (
	"crypto/rand"
	"strings"
)

const codeLength = 8

// NewCode returns a random 8-character game code. The alphabet skips
// characters that read ambiguously on a shared screen.
func NewCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("A", codeLength)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

// NormalizeCode upper-cases a player-typed code and validates its length.
func NormalizeCode(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if len(trimmed) != codeLength {
		return "", validationf("game code must be %d characters", codeLength)
	}
	return trimmed, nil
}
