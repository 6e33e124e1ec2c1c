package security

import (
	"crypto/rand"

	"github.com/deskhive/deskhive/internal/domain"
)

const (
	resetCodeLen      = 6
	resetCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ResetCodeGenerator produces 6-character reset-challenge codes from
// letters and digits. Codes are fresh per call; collisions are accepted as
// negligible at this scale.
type ResetCodeGenerator struct{}

func NewResetCodeGenerator() *ResetCodeGenerator { return &ResetCodeGenerator{} }

func (g *ResetCodeGenerator) Generate() (string, error) {
	b := make([]byte, resetCodeLen)
	if _, err := rand.Read(b); err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	for i := range b {
		b[i] = resetCodeAlphabet[int(b[i])%len(resetCodeAlphabet)]
	}
	return string(b), nil
}
