package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// resetCodeBytes is the entropy of a reset code: 20 bytes, 40 hex chars.
const resetCodeBytes = 20

// ResetCodeGenerator issues one-time password reset codes. Only the hash of
// a code is ever persisted; the plaintext goes to the user's mailbox.
type ResetCodeGenerator struct {
	ttl time.Duration
	now func() time.Time
}

// NewResetCodeGenerator creates a generator whose codes expire after ttl.
func NewResetCodeGenerator(ttl time.Duration) *ResetCodeGenerator {
	return &ResetCodeGenerator{ttl: ttl, now: time.Now}
}

// Generate returns a fresh code, the hash to store for it, and its expiry.
func (g *ResetCodeGenerator) Generate() (code, codeHash string, expiresAt time.Time, err error) {
	b := make([]byte, resetCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generating reset code: %w", err)
	}
	code = hex.EncodeToString(b)
	return code, HashResetCode(code), g.now().UTC().Add(g.ttl), nil
}

// HashResetCode returns the hex SHA-256 of a presented code, used to match
// it against the stored hash.
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
