package cnft

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// BubblegumProgramID is the Metaplex Bubblegum program.
var BubblegumProgramID = solana.MustPublicKeyFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")

// LeafVersionV1 tags the only leaf schema version in use.
const LeafVersionV1 byte = 1

var assetSeed = []byte("asset")

// AssetID derives the asset id of the leaf minted with nonce in tree: the
// program address of ["asset", tree, nonce LE] under Bubblegum.
func AssetID(tree solana.PublicKey, nonce uint64) (solana.PublicKey, error) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], nonce)
	id, _, err := solana.FindProgramAddress([][]byte{assetSeed, tree[:], n[:]}, BubblegumProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("cnft: derive asset id: %w", err)
	}
	return id, nil
}

// LeafSchema is the V1 Bubblegum leaf.
type LeafSchema struct {
	ID          solana.PublicKey
	Owner       solana.PublicKey
	Delegate    solana.PublicKey
	Nonce       uint64
	DataHash    [32]byte
	CreatorHash [32]byte
}

// Hash returns the leaf node stored in the tree.
func (l *LeafSchema) Hash() [32]byte {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], l.Nonce)
	return Hashv(
		[]byte{LeafVersionV1},
		l.ID[:],
		l.Owner[:],
		l.Delegate[:],
		n[:],
		l.DataHash[:],
		l.CreatorHash[:],
	)
}
