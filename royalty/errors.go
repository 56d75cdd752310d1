package royalty

import "errors"

var (
	// ErrCreatorMismatch indicates the account list does not match the creator list.
	ErrCreatorMismatch = errors.New("royalty: creator mismatch")

	// ErrNotEnoughAccounts indicates the account list ran out before every creator was paid.
	ErrNotEnoughAccounts = errors.New("royalty: not enough accounts")

	// ErrTokenAccountMismatch indicates a supplied creator token account is
	// not the creator's associated token account for the currency.
	ErrTokenAccountMismatch = errors.New("royalty: creator token account mismatch")

	// ErrUnknownMode indicates a nil or unsupported payment mode.
	ErrUnknownMode = errors.New("royalty: unknown payment mode")
)
