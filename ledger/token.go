package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solnft/toolbox-go/checked"
	"github.com/solnft/toolbox-go/nft"
)

// TokenAccount returns the token account at addr.
func (b *Bank) TokenAccount(addr solana.PublicKey) (TokenAccount, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ta, ok := b.tokens[addr]
	return ta, ok
}

// TokenBalance returns the token amount held at addr, zero if absent.
func (b *Bank) TokenBalance(addr solana.PublicKey) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tokens[addr].Amount
}

// CreateAssociatedTokenAccountIdempotent derives the associated token account
// of (owner, mint, tokenProgram) and creates it if absent, funding its rent
// from payer with a system transfer. An existing account must match the
// owner and mint.
func (b *Bank) CreateAssociatedTokenAccountIdempotent(payer, owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	ata, err := nft.AssociatedTokenAddress(owner, mint, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("ledger: derive token account: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.tokens[ata]; ok {
		if !existing.Owner.Equals(owner) {
			return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrOwnerMismatch, ata)
		}
		if !existing.Mint.Equals(mint) {
			return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrMintMismatch, ata)
		}
		return ata, nil
	}

	// Top up to the rent floor; the address may already hold stray lamports.
	floor := b.rent.MinimumBalance(TokenAccountSize)
	if held := b.accounts[ata].Lamports; held < floor {
		if err := b.systemTransfer(payer, ata, floor-held); err != nil {
			return solana.PublicKey{}, fmt.Errorf("ledger: fund token account rent: %w", err)
		}
	}
	acc := b.accounts[ata]
	acc.DataLen = TokenAccountSize
	acc.Owner = tokenProgram
	b.accounts[ata] = acc
	b.tokens[ata] = TokenAccount{Mint: mint, Owner: owner, Program: tokenProgram}
	return ata, nil
}

// MintTo credits amount tokens of mint to owner's associated token account,
// creating it with payer funding the rent.
func (b *Bank) MintTo(payer, owner, mint, tokenProgram solana.PublicKey, amount uint64) (solana.PublicKey, error) {
	ata, err := b.CreateAssociatedTokenAccountIdempotent(payer, owner, mint, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	ta := b.tokens[ata]
	credited, err := checked.Add(ta.Amount, amount)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("ledger: mint to %s: %w", ata, err)
	}
	ta.Amount = credited
	b.tokens[ata] = ta
	return ata, nil
}

// TransferTokens moves amount tokens from one token account to another.
// authority must own the source account.
func (b *Bank) TransferTokens(from, to, authority solana.PublicKey, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok := b.tokens[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenAccountNotFound, from)
	}
	dst, ok := b.tokens[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenAccountNotFound, to)
	}
	if !src.Owner.Equals(authority) {
		return fmt.Errorf("%w: %s is not owned by %s", ErrOwnerMismatch, from, authority)
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: %s -> %s", ErrMintMismatch, from, to)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: %s holds %d tokens, needs %d", ErrInsufficientFunds, from, src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	credited, err := checked.Add(dst.Amount, amount)
	if err != nil {
		return fmt.Errorf("ledger: credit %s: %w", to, err)
	}
	src.Amount -= amount
	dst.Amount = credited
	b.tokens[from] = src
	b.tokens[to] = dst
	return nil
}
