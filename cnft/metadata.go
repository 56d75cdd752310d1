package cnft

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solnft/toolbox-go/nft"
)

// TokenProgramVersion selects the token program of a compressed NFT.
type TokenProgramVersion uint8

const (
	TokenProgramOriginal TokenProgramVersion = iota
	TokenProgramToken2022
)

// UseMethod is the Token Metadata use method.
type UseMethod uint8

const (
	UseBurn UseMethod = iota
	UseMultiple
	UseSingle
)

// Collection links an asset to its collection.
type Collection struct {
	Verified bool
	Key      solana.PublicKey
}

// Uses describes a limited-use asset.
type Uses struct {
	UseMethod UseMethod
	Remaining uint64
	Total     uint64
}

// MetadataArgs is the Bubblegum metadata of a compressed NFT. Field order
// is the Borsh wire order and must not change.
type MetadataArgs struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	PrimarySaleHappened  bool
	IsMutable            bool
	EditionNonce         *uint8
	TokenStandard        *nft.TokenStandard
	Collection           *Collection
	Uses                 *Uses
	TokenProgramVersion  TokenProgramVersion
	Creators             []nft.Creator
}

// Clone returns a deep copy of m. Clone of nil is nil.
func (m *MetadataArgs) Clone() *MetadataArgs {
	if m == nil {
		return nil
	}
	c := *m
	c.EditionNonce = clonePtr(m.EditionNonce)
	c.TokenStandard = clonePtr(m.TokenStandard)
	c.Collection = clonePtr(m.Collection)
	c.Uses = clonePtr(m.Uses)
	if m.Creators != nil {
		c.Creators = append([]nft.Creator(nil), m.Creators...)
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CompressedMetadata is MetadataArgs with the creator list split into shares
// and verified flags; creator keys come from the instruction's account list
// so they are not sent twice.
type CompressedMetadata struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	PrimarySaleHappened  bool
	IsMutable            bool
	EditionNonce         *uint8
	TokenStandard        *nft.TokenStandard
	Collection           *Collection
	Uses                 *Uses
	TokenProgramVersion  TokenProgramVersion
	CreatorShares        []uint8
	CreatorVerified      []bool
}

// Expand rebuilds the full metadata using creatorKeys, in order. The result
// shares no memory with c.
func (c *CompressedMetadata) Expand(creatorKeys []solana.PublicKey) (*MetadataArgs, error) {
	creators, err := zipCreators(creatorKeys, c.CreatorShares, c.CreatorVerified)
	if err != nil {
		return nil, err
	}
	return &MetadataArgs{
		Name:                 c.Name,
		Symbol:               c.Symbol,
		URI:                  c.URI,
		SellerFeeBasisPoints: c.SellerFeeBasisPoints,
		PrimarySaleHappened:  c.PrimarySaleHappened,
		IsMutable:            c.IsMutable,
		EditionNonce:         clonePtr(c.EditionNonce),
		TokenStandard:        clonePtr(c.TokenStandard),
		Collection:           clonePtr(c.Collection),
		Uses:                 clonePtr(c.Uses),
		TokenProgramVersion:  c.TokenProgramVersion,
		Creators:             creators,
	}, nil
}

func zipCreators(keys []solana.PublicKey, shares []uint8, verified []bool) ([]nft.Creator, error) {
	if len(keys) != len(shares) || len(keys) != len(verified) {
		return nil, fmt.Errorf("%w: %d keys, %d shares, %d verified flags",
			ErrCreatorCountMismatch, len(keys), len(shares), len(verified))
	}
	creators := make([]nft.Creator, len(keys))
	for i, k := range keys {
		creators[i] = nft.Creator{Address: k, Verified: verified[i], Share: shares[i]}
	}
	return creators, nil
}
