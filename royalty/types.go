package royalty

import (
	"github.com/gagliardetto/solana-go"
)

// LamportBank is the host balance primitive used to pay royalties in SOL.
type LamportBank interface {
	// Lamports returns the current balance of key.
	Lamports(key solana.PublicKey) uint64

	// MinimumBalance returns the rent-exempt floor of key.
	MinimumBalance(key solana.PublicKey) uint64

	// TransferFromPDA debits a program-owned account directly.
	TransferFromPDA(from, to solana.PublicKey, lamports uint64) error

	// SystemTransfer debits an external payer through the system program.
	SystemTransfer(from, to solana.PublicKey, lamports uint64) error
}

// TokenBank is the host token primitive used to pay royalties in an SPL currency.
type TokenBank interface {
	// CreateAssociatedTokenAccountIdempotent ensures owner's token account
	// for mint exists and returns its address.
	CreateAssociatedTokenAccountIdempotent(payer, owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error)

	// TransferTokens moves tokens between token accounts of the same mint.
	TransferTokens(from, to, authority solana.PublicKey, amount uint64) error
}

// Funding is the source of SOL royalty payments: FromPDA or FromExternal.
type Funding interface {
	pay(bank LamportBank, to solana.PublicKey, lamports uint64) error
}

// FromPDA pays from a program-owned account by direct balance mutation.
type FromPDA struct {
	Key solana.PublicKey
}

func (f FromPDA) pay(bank LamportBank, to solana.PublicKey, lamports uint64) error {
	return bank.TransferFromPDA(f.Key, to, lamports)
}

// FromExternal pays from an external signer through a system transfer.
type FromExternal struct {
	Key solana.PublicKey
}

func (f FromExternal) pay(bank LamportBank, to solana.PublicKey, lamports uint64) error {
	return bank.SystemTransfer(f.Key, to, lamports)
}

// Mode selects the currency royalties are paid in: Sol or Spl.
type Mode interface {
	mode()
}

// Sol pays royalties in lamports. Creators whose account would stay below
// the rent floor after payment are skipped.
type Sol struct {
	Bank LamportBank
	From Funding
}

// Spl pays royalties in an SPL token. Each paid creator is followed in the
// account list by their associated token account, created on demand.
type Spl struct {
	Tokens             TokenBank
	Mint               solana.PublicKey
	TokenProgram       solana.PublicKey
	Authority          solana.PublicKey // owner of SourceTokenAccount
	SourceTokenAccount solana.PublicKey
	RentPayer          solana.PublicKey
}

func (Sol) mode() {}
func (Spl) mode() {}

// Payout is a single creator payment.
type Payout struct {
	Creator solana.PublicKey
	Amount  uint64
}

// Result is the outcome of a distribution.
type Result struct {
	Requested  uint64 // creator fee handed to the distributor
	AmountPaid uint64
	Payouts    []Payout           // in creator order, zero amounts included
	Skipped    []solana.PublicKey // creators that could not receive their share
}

// Dust returns the part of the creator fee that was not paid out. It stays
// with the funding source.
func (r Result) Dust() uint64 {
	return r.Requested - r.AmountPaid
}
