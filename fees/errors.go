package fees

import "errors"

var (
	// ErrBadRoyaltyPercentage indicates an optional royalty percentage above 100.
	ErrBadRoyaltyPercentage = errors.New("fees: bad royalty percentage")

	// ErrFeeTooHigh indicates a total fee rate above 10000 bps.
	ErrFeeTooHigh = errors.New("fees: total fee exceeds 10000 bps")
)
