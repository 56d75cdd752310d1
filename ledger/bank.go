// Package ledger is an in-memory model of the Solana account ledger: lamport
// balances, rent-exemption floors, system and program-owned transfers, and SPL
// token accounts. It implements the balance primitives consumed by the
// royalty distributor and lets a caller run a group of mutations
// all-or-nothing, like a transaction.
package ledger

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/solnft/toolbox-go/checked"
)

// Account is the lamport-level view of a ledger account. The zero value is a
// non-existent account: no lamports, no data, owned by the system program.
type Account struct {
	Lamports uint64
	DataLen  int
	Owner    solana.PublicKey
}

// IsSystem reports whether the account can be debited by a system transfer.
func (a Account) IsSystem() bool {
	return a.DataLen == 0 && a.Owner.Equals(solana.SystemProgramID)
}

// TokenAccount is an SPL token account.
type TokenAccount struct {
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Program solana.PublicKey
	Amount  uint64
}

// Bank holds account state. It is safe for concurrent use.
type Bank struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	rent     Rent
	log      *slog.Logger
	accounts map[solana.PublicKey]Account
	tokens   map[solana.PublicKey]TokenAccount
}

// Option configures a Bank.
type Option func(*Bank)

// WithLogger sets the logger used to report skipped transfers.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bank) { b.log = l }
}

// NewBank creates an empty ledger with the given rent parameters.
func NewBank(rent Rent, opts ...Option) *Bank {
	b := &Bank{
		rent:     rent,
		log:      slog.New(slog.DiscardHandler),
		accounts: make(map[solana.PublicKey]Account),
		tokens:   make(map[solana.PublicKey]TokenAccount),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Rent returns the bank's rent parameters.
func (b *Bank) Rent() Rent { return b.rent }

// SetAccount creates or replaces an account.
func (b *Bank) SetAccount(key solana.PublicKey, acc Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[key] = acc
}

// Account returns the account stored under key and whether it exists.
func (b *Bank) Account(key solana.PublicKey) (Account, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	acc, ok := b.accounts[key]
	return acc, ok
}

// Lamports returns the balance of key.
func (b *Bank) Lamports(key solana.PublicKey) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.accounts[key].Lamports
}

// MinimumBalance returns the rent-exempt floor of key given its current size.
func (b *Bank) MinimumBalance(key solana.PublicKey) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rent.MinimumBalance(b.accounts[key].DataLen)
}

// Atomic runs fn and restores every account to its prior state if fn fails.
// Atomic calls are serialized with each other.
func (b *Bank) Atomic(fn func(*Bank) error) error {
	b.txMu.Lock()
	defer b.txMu.Unlock()

	b.mu.RLock()
	accounts := maps.Clone(b.accounts)
	tokens := maps.Clone(b.tokens)
	b.mu.RUnlock()

	if err := fn(b); err != nil {
		b.mu.Lock()
		b.accounts = accounts
		b.tokens = tokens
		b.mu.Unlock()
		return err
	}
	return nil
}

// TransferFromPDA moves lamports out of a program-owned account by direct
// balance mutation. The source must stay at or above its rent floor.
func (b *Bank) TransferFromPDA(from, to solana.PublicKey, lamports uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transferFromPDA(from, to, lamports)
}

func (b *Bank) transferFromPDA(from, to solana.PublicKey, lamports uint64) error {
	src := b.accounts[from]
	remaining, err := checked.Sub(src.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("ledger: debit %s: %w", from, err)
	}
	if floor := b.rent.MinimumBalance(src.DataLen); remaining < floor {
		return fmt.Errorf("%w: %s would hold %d, rent floor is %d", ErrInsufficientBalance, from, remaining, floor)
	}
	return b.move(from, to, lamports, remaining)
}

// TransferAllFromPDA moves everything above the rent floor out of a program-owned account.
func (b *Bank) TransferAllFromPDA(from, to solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.accounts[from]
	amount, err := checked.Sub(src.Lamports, b.rent.MinimumBalance(src.DataLen))
	if err != nil {
		return fmt.Errorf("ledger: drain %s: %w", from, err)
	}
	return b.transferFromPDA(from, to, amount)
}

// SystemTransfer moves lamports out of a system account, as the system
// program's transfer instruction does.
func (b *Bank) SystemTransfer(from, to solana.PublicKey, lamports uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.systemTransfer(from, to, lamports)
}

func (b *Bank) systemTransfer(from, to solana.PublicKey, lamports uint64) error {
	src := b.accounts[from]
	if !src.IsSystem() {
		return fmt.Errorf("%w: %s", ErrNotSystemAccount, from)
	}
	if src.Lamports < lamports {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, from, src.Lamports, lamports)
	}
	return b.move(from, to, lamports, src.Lamports-lamports)
}

// move credits to and sets the source balance. Callers hold b.mu.
func (b *Bank) move(from, to solana.PublicKey, lamports, remaining uint64) error {
	dst := b.accounts[to]
	if from.Equals(to) {
		return nil
	}
	credited, err := checked.Add(dst.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("ledger: credit %s: %w", to, err)
	}
	src := b.accounts[from]
	src.Lamports = remaining
	dst.Lamports = credited
	b.accounts[from] = src
	b.accounts[to] = dst
	return nil
}

// TransferLamports uses a system transfer when from is a system account and
// a direct PDA debit otherwise.
func (b *Bank) TransferLamports(from, to solana.PublicKey, lamports uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.accounts[from].IsSystem() {
		return b.systemTransfer(from, to, lamports)
	}
	return b.transferFromPDA(from, to, lamports)
}

// TransferLamportsChecked behaves like TransferLamports but skips the
// transfer when the destination would not be rent exempt afterwards. It
// reports whether the transfer happened.
func (b *Bank) TransferLamportsChecked(from, to solana.PublicKey, lamports uint64) (bool, error) {
	b.mu.RLock()
	dst := b.accounts[to]
	b.mu.RUnlock()

	after, err := checked.Add(dst.Lamports, lamports)
	if err != nil {
		return false, fmt.Errorf("ledger: credit %s: %w", to, err)
	}
	if after < b.rent.MinimumBalance(dst.DataLen) {
		b.log.Debug("skipping transfer, account would not be rent exempt",
			"to", to.String(), "lamports", lamports)
		return false, nil
	}
	if err := b.TransferLamports(from, to, lamports); err != nil {
		return false, err
	}
	return true, nil
}

// CloseAccount moves all lamports of pda to dest and deletes pda, handing it
// back to the system program. dest must differ from pda.
func (b *Bank) CloseAccount(pda, dest solana.PublicKey) error {
	if pda.Equals(dest) {
		return fmt.Errorf("%w: %s", ErrCloseToSelf, pda)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.accounts[pda]
	dst := b.accounts[dest]
	credited, err := checked.Add(dst.Lamports, src.Lamports)
	if err != nil {
		return fmt.Errorf("ledger: close %s: %w", pda, err)
	}
	dst.Lamports = credited
	b.accounts[dest] = dst
	delete(b.accounts, pda)
	delete(b.tokens, pda)
	return nil
}
