// Package nft holds the domain types shared by the fee, royalty and
// compressed-NFT packages.
package nft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrUnknownTokenStandard indicates an unrecognised token standard name.
var ErrUnknownTokenStandard = errors.New("nft: unknown token standard")

// Creator is a royalty recipient of an NFT. It is agnostic to the NFT
// standard: legacy metadata, programmable NFTs, compressed NFTs and Core
// assets all map onto it.
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8 // percentage (0-100), NOT basis points
}

// TokenStandard mirrors the Token Metadata token standard enum.
type TokenStandard uint8

const (
	NonFungible TokenStandard = iota
	FungibleAsset
	Fungible
	NonFungibleEdition
	ProgrammableNonFungible
	ProgrammableNonFungibleEdition
)

// String returns the standard's name.
func (s TokenStandard) String() string {
	switch s {
	case NonFungible:
		return "NonFungible"
	case FungibleAsset:
		return "FungibleAsset"
	case Fungible:
		return "Fungible"
	case NonFungibleEdition:
		return "NonFungibleEdition"
	case ProgrammableNonFungible:
		return "ProgrammableNonFungible"
	case ProgrammableNonFungibleEdition:
		return "ProgrammableNonFungibleEdition"
	default:
		return "Unknown"
	}
}

// ParseTokenStandard parses a standard name as returned by String, ignoring
// case. "pnft" is accepted for ProgrammableNonFungible.
func ParseTokenStandard(name string) (TokenStandard, error) {
	if strings.EqualFold(name, "pnft") {
		return ProgrammableNonFungible, nil
	}
	for s := NonFungible; s <= ProgrammableNonFungibleEdition; s++ {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTokenStandard, name)
}

// IsRoyaltyEnforced reports whether the token standard mandates full
// royalty payment. A nil standard is a legacy NFT without enforcement.
func IsRoyaltyEnforced(standard *TokenStandard) bool {
	if standard == nil {
		return false
	}
	return *standard == ProgrammableNonFungible || *standard == ProgrammableNonFungibleEdition
}

// AssociatedTokenAddress derives the associated token account of owner for
// mint under the given token program (SPL Token or Token-2022).
func AssociatedTokenAddress(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{owner[:], tokenProgram[:], mint[:]},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	return addr, err
}
