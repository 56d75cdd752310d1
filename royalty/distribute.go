// Package royalty disburses a creator royalty pool to an ordered creator list.
//
// Creators are paid in list order against a matching caller-supplied account
// list. A creator that cannot receive their share (in SOL, an account that
// would stay below the rent-exempt floor) is skipped instead of failing the
// whole payment; the unpaid remainder stays with the funding source.
package royalty

import (
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/solnft/toolbox-go/checked"
	"github.com/solnft/toolbox-go/nft"
)

// Distributor pays creator royalties.
type Distributor struct {
	log *slog.Logger
}

// NewDistributor creates a Distributor. A nil logger discards output.
func NewDistributor(log *slog.Logger) *Distributor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Distributor{log: log}
}

// TransferCreatorsFee pays creatorFee to creators and returns the amount
// actually paid. See Distributor.Distribute.
func TransferCreatorsFee(creators []nft.Creator, accounts *Accounts, creatorFee uint64, mode Mode) (uint64, error) {
	res, err := NewDistributor(nil).Distribute(creators, accounts, creatorFee, mode)
	if err != nil {
		return 0, err
	}
	return res.AmountPaid, nil
}

// Distribute pays each creator Share percent of creatorFee.
//
// Every creator consumes the next entry of accounts, which must be the
// creator's address; in Spl mode a paid creator also consumes their token
// account. Errors abort immediately without undoing earlier payments: the
// caller runs the distribution inside a transaction that rolls back as a
// whole.
func (d *Distributor) Distribute(creators []nft.Creator, accounts *Accounts, creatorFee uint64, mode Mode) (Result, error) {
	if err := validateMode(mode); err != nil {
		return Result{}, err
	}

	res := Result{Requested: creatorFee}
	remaining := creatorFee

	for i, creator := range creators {
		key, err := accounts.Next()
		if err != nil {
			return Result{}, fmt.Errorf("creator %d: %w", i, err)
		}
		if !key.Equals(creator.Address) {
			return Result{}, fmt.Errorf("%w: creator %d is %s, account is %s",
				ErrCreatorMismatch, i, creator.Address, key)
		}

		share, err := checked.MulDiv(uint64(creator.Share), creatorFee, 100)
		if err != nil {
			return Result{}, fmt.Errorf("royalty: creator %d share: %w", i, err)
		}

		if sol, ok := mode.(Sol); ok {
			after, err := checked.Add(sol.Bank.Lamports(key), share)
			if err != nil {
				return Result{}, fmt.Errorf("royalty: creator %d balance: %w", i, err)
			}
			if floor := sol.Bank.MinimumBalance(key); after < floor {
				d.log.Debug("skipping creator, account would not be rent exempt",
					"creator", key.String(), "share", share, "rent_floor", floor)
				res.Skipped = append(res.Skipped, key)
				continue
			}
		}

		remaining, err = checked.Sub(remaining, share)
		if err != nil {
			return Result{}, fmt.Errorf("royalty: creator %d remaining fee: %w", i, err)
		}
		res.Payouts = append(res.Payouts, Payout{Creator: key, Amount: share})
		if share == 0 {
			continue
		}

		switch m := mode.(type) {
		case Sol:
			if err := m.From.pay(m.Bank, key, share); err != nil {
				return Result{}, fmt.Errorf("royalty: pay creator %s: %w", key, err)
			}
		case Spl:
			if err := payToken(m, accounts, key, share); err != nil {
				return Result{}, err
			}
		}
	}

	paid, err := checked.Sub(creatorFee, remaining)
	if err != nil {
		return Result{}, fmt.Errorf("royalty: amount paid: %w", err)
	}
	res.AmountPaid = paid
	return res, nil
}

func payToken(m Spl, accounts *Accounts, creator solana.PublicKey, amount uint64) error {
	supplied, err := accounts.Next()
	if err != nil {
		return fmt.Errorf("creator %s token account: %w", creator, err)
	}
	want, err := nft.AssociatedTokenAddress(creator, m.Mint, m.TokenProgram)
	if err != nil {
		return fmt.Errorf("royalty: derive token account of %s: %w", creator, err)
	}
	if !supplied.Equals(want) {
		return fmt.Errorf("%w: %s, want %s", ErrTokenAccountMismatch, supplied, want)
	}

	ata, err := m.Tokens.CreateAssociatedTokenAccountIdempotent(m.RentPayer, creator, m.Mint, m.TokenProgram)
	if err != nil {
		return fmt.Errorf("royalty: create token account of %s: %w", creator, err)
	}
	if err := m.Tokens.TransferTokens(m.SourceTokenAccount, ata, m.Authority, amount); err != nil {
		return fmt.Errorf("royalty: pay creator %s: %w", creator, err)
	}
	return nil
}

func validateMode(mode Mode) error {
	switch m := mode.(type) {
	case Sol:
		if m.Bank == nil || m.From == nil {
			return fmt.Errorf("%w: sol mode needs a bank and a funding source", ErrUnknownMode)
		}
	case Spl:
		if m.Tokens == nil {
			return fmt.Errorf("%w: spl mode needs a token bank", ErrUnknownMode)
		}
	default:
		return ErrUnknownMode
	}
	return nil
}
