package cnft

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solnft/toolbox-go/nft"
)

// MetadataSource supplies the content of a leaf: *MetadataArgs,
// *CompressedMetadata or DataHashArgs.
type MetadataSource interface {
	metadataSource()
}

func (*MetadataArgs) metadataSource()       {}
func (*CompressedMetadata) metadataSource() {}
func (DataHashArgs) metadataSource()        {}

// DataHashArgs carries a precomputed metadata args hash instead of the
// metadata itself.
type DataHashArgs struct {
	MetaHash             [32]byte
	CreatorShares        []uint8
	CreatorVerified      []bool
	SellerFeeBasisPoints uint16
}

// LeafContent is the content part of a leaf.
type LeafContent struct {
	DataHash    [32]byte
	CreatorHash [32]byte
	Creators    []nft.Creator
}

// ComputeLeafContentHash computes the data hash and creator hash of a leaf.
// creatorKeys are ignored for *MetadataArgs, which carries its own creators.
func ComputeLeafContentHash(src MetadataSource, creatorKeys []solana.PublicKey) (LeafContent, error) {
	var (
		metaHash [32]byte
		fee      uint16
		creators []nft.Creator
		err      error
	)

	switch s := src.(type) {
	case *MetadataArgs:
		if s == nil {
			return LeafContent{}, fmt.Errorf("%w: metadata", ErrNilParam)
		}
		if metaHash, err = HashMetadata(s); err != nil {
			return LeafContent{}, err
		}
		fee, creators = s.SellerFeeBasisPoints, s.Creators
	case *CompressedMetadata:
		if s == nil {
			return LeafContent{}, fmt.Errorf("%w: metadata", ErrNilParam)
		}
		full, err := s.Expand(creatorKeys)
		if err != nil {
			return LeafContent{}, err
		}
		if metaHash, err = HashMetadata(full); err != nil {
			return LeafContent{}, err
		}
		fee, creators = full.SellerFeeBasisPoints, full.Creators
	case DataHashArgs:
		if creators, err = zipCreators(creatorKeys, s.CreatorShares, s.CreatorVerified); err != nil {
			return LeafContent{}, err
		}
		metaHash, fee = s.MetaHash, s.SellerFeeBasisPoints
	default:
		return LeafContent{}, fmt.Errorf("%w: %T", ErrUnknownSource, src)
	}

	return LeafContent{
		DataHash:    DataHash(metaHash, fee),
		CreatorHash: HashCreators(creators),
		Creators:    creators,
	}, nil
}

// MakeArgsParams identifies a compressed NFT and its content.
type MakeArgsParams struct {
	Tree        solana.PublicKey
	Nonce       uint64
	CreatorKeys []solana.PublicKey
	Source      MetadataSource
}

// Args are the values an instruction needs to verify and pay out a
// compressed NFT.
type Args struct {
	AssetID     solana.PublicKey
	Nonce       uint64
	DataHash    [32]byte
	CreatorHash [32]byte
	Creators    []nft.Creator
}

// MakeArgs derives the asset id and content hashes for p.
func MakeArgs(p MakeArgsParams) (*Args, error) {
	content, err := ComputeLeafContentHash(p.Source, p.CreatorKeys)
	if err != nil {
		return nil, err
	}
	id, err := AssetID(p.Tree, p.Nonce)
	if err != nil {
		return nil, err
	}
	return &Args{
		AssetID:     id,
		Nonce:       p.Nonce,
		DataHash:    content.DataHash,
		CreatorHash: content.CreatorHash,
		Creators:    content.Creators,
	}, nil
}

// Leaf assembles the leaf schema for owner and delegate.
func (a *Args) Leaf(owner, delegate solana.PublicKey) LeafSchema {
	return LeafSchema{
		ID:          a.AssetID,
		Owner:       owner,
		Delegate:    delegate,
		Nonce:       a.Nonce,
		DataHash:    a.DataHash,
		CreatorHash: a.CreatorHash,
	}
}
