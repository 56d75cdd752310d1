package cnft

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// EncodeHash renders h in base58.
func EncodeHash(h [32]byte) string {
	return base58.Encode(h[:])
}

// DecodeHash parses a base58 hash.
func DecodeHash(s string) ([32]byte, error) {
	var h [32]byte
	b, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("%w: %q: %w", ErrInvalidHash, s, err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidHash, s, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// DecodeProof parses a base58 proof path.
func DecodeProof(nodes []string) ([][32]byte, error) {
	proof := make([][32]byte, len(nodes))
	for i, s := range nodes {
		h, err := DecodeHash(s)
		if err != nil {
			return nil, fmt.Errorf("proof node %d: %w", i, err)
		}
		proof[i] = h
	}
	return proof, nil
}
