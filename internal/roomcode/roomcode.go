// Package roomcode generates the short codes players type to join a
// room. The alphabet has exactly 32 characters and omits visually
// confusable ones (0/O, 1/I).
package roomcode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length of every room code
const Length = 5

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource means crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate returns a fresh room code. Uniqueness among live rooms is the
// registry's job, not the generator's.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	if g.randSource != nil {
		for i := 0; i < Length; i++ {
			b.WriteByte(alphabet[g.randSource.IntN(len(alphabet))])
		}
		return b.String()
	}
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("roomcode: failed to read random bytes: " + err.Error())
	}
	// 32 divides 256, so masking to 5 bits is unbiased
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[buf[i]&0x1f])
	}
	return b.String()
}

// Normalize uppercases a user-typed code
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks length and alphabet membership
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return fmt.Errorf("invalid character %c at position %d", code[i], i)
		}
	}
	return nil
}
