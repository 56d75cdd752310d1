package cnft

import (
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"
	"golang.org/x/crypto/sha3"

	"github.com/solnft/toolbox-go/nft"
)

// HashSize is the size of every hash in this package.
const HashSize = 32

// Hashv computes keccak256 over the concatenation of parts, matching
// Solana's keccak::hashv.
func Hashv(parts ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// HashCreators hashes the ordered creator list as one keccak invocation over
// address || verified || share for every creator.
func HashCreators(creators []nft.Creator) [32]byte {
	parts := make([][]byte, 0, len(creators))
	for _, c := range creators {
		seg := make([]byte, 0, 34)
		seg = append(seg, c.Address[:]...)
		if c.Verified {
			seg = append(seg, 1)
		} else {
			seg = append(seg, 0)
		}
		seg = append(seg, c.Share)
		parts = append(parts, seg)
	}
	return Hashv(parts...)
}

// SerializeMetadata returns the Borsh encoding of m.
func SerializeMetadata(m *MetadataArgs) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: metadata", ErrNilParam)
	}
	data, err := borsh.Serialize(*m)
	if err != nil {
		return nil, fmt.Errorf("cnft: serialize metadata: %w", err)
	}
	return data, nil
}

// DeserializeMetadata decodes Borsh-encoded metadata.
func DeserializeMetadata(data []byte) (*MetadataArgs, error) {
	var m MetadataArgs
	if err := borsh.Deserialize(&m, data); err != nil {
		return nil, fmt.Errorf("cnft: deserialize metadata: %w", err)
	}
	return &m, nil
}

// HashMetadata returns the metadata args hash: keccak of the Borsh encoding.
func HashMetadata(m *MetadataArgs) ([32]byte, error) {
	data, err := SerializeMetadata(m)
	if err != nil {
		return [32]byte{}, err
	}
	return Hashv(data), nil
}

// DataHash binds the metadata args hash to the seller fee. It is a separate
// keccak pass over metaHash || sellerFeeBps (little endian).
func DataHash(metaHash [32]byte, sellerFeeBps uint16) [32]byte {
	var fee [2]byte
	binary.LittleEndian.PutUint16(fee[:], sellerFeeBps)
	return Hashv(metaHash[:], fee[:])
}
