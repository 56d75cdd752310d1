package fees

import (
	"fmt"

	"github.com/solnft/toolbox-go/checked"
)

// RoyaltyArgs are the inputs of CreatorRoyalty.
type RoyaltyArgs struct {
	SellerFeeBps uint16 // the asset's seller_fee_basis_points
	Amount       uint64
	RoyaltyPct   *uint8 // nil disables optional royalties
	Enforced     bool   // forces RoyaltyPct to 100, see nft.IsRoyaltyEnforced
}

// Pct returns a pointer to v, for RoyaltyArgs.RoyaltyPct.
func Pct(v uint8) *uint8 {
	return &v
}

// CreatorRoyalty returns the royalty owed to the creators of an asset.
func CreatorRoyalty(args RoyaltyArgs) (uint64, error) {
	pct := args.RoyaltyPct
	if args.Enforced {
		pct = Pct(HundredPct)
	}
	if pct == nil {
		return 0, nil
	}
	if *pct > HundredPct {
		return 0, fmt.Errorf("%w: %d", ErrBadRoyaltyPercentage, *pct)
	}

	bps, err := checked.MulDiv(uint64(args.SellerFeeBps), uint64(*pct), HundredPct)
	if err != nil {
		return 0, fmt.Errorf("fees: royalty bps: %w", err)
	}
	fee, err := checked.MulDiv(bps, args.Amount, HundredPctBps)
	if err != nil {
		return 0, fmt.Errorf("fees: royalty: %w", err)
	}
	return fee, nil
}
