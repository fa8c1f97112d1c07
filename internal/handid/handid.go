// Package handid generates sortable hand identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32.
package handid

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces hand ids. Random bits come from the injected reader so
// a seeded table produces the same suffixes on every run.
type Generator struct {
	mu     sync.Mutex
	random io.Reader
}

// NewGenerator returns a generator reading randomness from r, or from the
// uuid package's default source when r is nil.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{random: r}
}

// Next returns a new identifier
func (g *Generator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		id  uuid.UUID
		err error
	)
	if g.random != nil {
		id, err = uuid.NewV7FromReader(g.random)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		return "", fmt.Errorf("generate hand id: %w", err)
	}
	return Encode(id), nil
}

// Encode renders id as 26 base32 characters. Two zero bits pad the 128 id
// bits to 130, so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	var out [26]byte
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			bit := i*5 + b - 2
			v <<= 1
			if bit >= 0 && id[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Decode parses an identifier produced by Encode
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(alphabet, s[i])
		for b := 0; b < 5; b++ {
			bit := i*5 + b - 2
			if bit >= 0 && v&(0x10>>b) != 0 {
				id[bit/8] |= 0x80 >> (bit % 8)
			}
		}
	}
	return id, nil
}

// Validate checks that s is 26 base32 characters starting with 0-7
func Validate(s string) error {
	if len(s) != 26 {
		return fmt.Errorf("hand id must be exactly 26 characters, got %d", len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("hand id first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}
