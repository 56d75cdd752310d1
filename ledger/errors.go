package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates a program-owned account would drop
	// below its rent-exempt floor.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrInsufficientFunds indicates the source does not hold enough lamports or tokens.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrNotSystemAccount indicates a system transfer from an account that
	// carries data or is not owned by the system program.
	ErrNotSystemAccount = errors.New("ledger: source is not a system account")

	// ErrTokenAccountNotFound indicates a token account does not exist.
	ErrTokenAccountNotFound = errors.New("ledger: token account not found")

	// ErrOwnerMismatch indicates the token account is not owned by the given authority.
	ErrOwnerMismatch = errors.New("ledger: token account owner mismatch")

	// ErrMintMismatch indicates token accounts of different mints.
	ErrMintMismatch = errors.New("ledger: token account mint mismatch")

	// ErrCloseToSelf indicates an account closed with itself as the destination.
	ErrCloseToSelf = errors.New("ledger: cannot close an account into itself")
)
