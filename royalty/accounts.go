package royalty

import (
	"github.com/gagliardetto/solana-go"
)

// Accounts iterates the caller-supplied account list in instruction order.
type Accounts struct {
	keys []solana.PublicKey
	pos  int
}

// NewAccounts wraps keys in an iterator.
func NewAccounts(keys ...solana.PublicKey) *Accounts {
	return &Accounts{keys: keys}
}

// Next returns the next account or ErrNotEnoughAccounts.
func (a *Accounts) Next() (solana.PublicKey, error) {
	if a.pos >= len(a.keys) {
		return solana.PublicKey{}, ErrNotEnoughAccounts
	}
	k := a.keys[a.pos]
	a.pos++
	return k, nil
}

// Remaining returns the number of unconsumed accounts.
func (a *Accounts) Remaining() int {
	return len(a.keys) - a.pos
}
