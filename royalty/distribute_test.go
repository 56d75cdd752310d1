package royalty

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solnft/toolbox-go/ledger"
	"github.com/solnft/toolbox-go/nft"
)

const sol = 1_000_000_000

// Compile-time interface checks.
var (
	_ LamportBank = (*ledger.Bank)(nil)
	_ TokenBank   = (*ledger.Bank)(nil)
)

func makeKey(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed
	}
	return k
}

var (
	creatorA = makeKey(0xA1)
	creatorB = makeKey(0xB2)
	creatorC = makeKey(0xC3)
	escrow   = makeKey(0xE0)
	payer    = makeKey(0xF0)
	program  = makeKey(0x77)
)

// newBank returns a ledger with funded creators A and C, an unfunded B,
// a program-owned escrow and a system payer.
func newBank(t *testing.T, escrowLamports uint64) *ledger.Bank {
	t.Helper()
	bank := ledger.NewBank(ledger.DefaultRent())
	bank.SetAccount(creatorA, ledger.Account{Lamports: sol})
	bank.SetAccount(creatorC, ledger.Account{Lamports: sol})
	bank.SetAccount(escrow, ledger.Account{Lamports: escrowLamports, DataLen: 8, Owner: program})
	bank.SetAccount(payer, ledger.Account{Lamports: 10 * sol})
	return bank
}

func escrowFloor() uint64 {
	return ledger.DefaultRent().MinimumBalance(8)
}

func TestDistribute_PaysInOrderWithDust(t *testing.T) {
	bank := newBank(t, escrowFloor()+2*sol)
	bank.SetAccount(creatorB, ledger.Account{Lamports: sol})
	creators := []nft.Creator{
		{Address: creatorA, Verified: true, Share: 50},
		{Address: creatorB, Share: 30},
		{Address: creatorC, Share: 20},
	}

	res, err := NewDistributor(nil).Distribute(creators, NewAccounts(creatorA, creatorB, creatorC),
		sol+1, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	require.NoError(t, err)

	assert.Equal(t, uint64(sol), res.AmountPaid)
	assert.Equal(t, uint64(1), res.Dust())
	assert.Empty(t, res.Skipped)
	assert.Equal(t, []Payout{
		{Creator: creatorA, Amount: 500_000_000},
		{Creator: creatorB, Amount: 300_000_000},
		{Creator: creatorC, Amount: 200_000_000},
	}, res.Payouts)

	assert.Equal(t, uint64(sol+500_000_000), bank.Lamports(creatorA))
	assert.Equal(t, uint64(sol+300_000_000), bank.Lamports(creatorB))
	assert.Equal(t, uint64(sol+200_000_000), bank.Lamports(creatorC))
	assert.Equal(t, escrowFloor()+sol, bank.Lamports(escrow), "dust stays in escrow")
}

func TestDistribute_DustBound(t *testing.T) {
	creators := []nft.Creator{
		{Address: creatorA, Share: 33},
		{Address: creatorB, Share: 33},
		{Address: creatorC, Share: 34},
	}
	for _, fee := range []uint64{1_000_003, 999_999_999, 2*sol + 97} {
		bank := newBank(t, escrowFloor()+3*sol)
		bank.SetAccount(creatorB, ledger.Account{Lamports: sol})

		paid, err := TransferCreatorsFee(creators, NewAccounts(creatorA, creatorB, creatorC),
			fee, Sol{Bank: bank, From: FromPDA{Key: escrow}})
		require.NoError(t, err)
		assert.LessOrEqual(t, fee-paid, uint64(len(creators)-1), "fee %d", fee)
	}
}

func TestDistribute_SkipsCreatorBelowRentFloor(t *testing.T) {
	bank := newBank(t, escrowFloor()+sol)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	creators := []nft.Creator{
		{Address: creatorA, Share: 50},
		{Address: creatorB, Share: 30}, // never funded
		{Address: creatorC, Share: 20},
	}

	res, err := NewDistributor(log).Distribute(creators, NewAccounts(creatorA, creatorB, creatorC),
		1_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	require.NoError(t, err)

	assert.Equal(t, uint64(700), res.AmountPaid)
	assert.Equal(t, uint64(300), res.Dust())
	assert.Equal(t, []solana.PublicKey{creatorB}, res.Skipped)
	assert.Zero(t, bank.Lamports(creatorB))
	assert.Equal(t, escrowFloor()+sol-700, bank.Lamports(escrow))
	assert.Contains(t, logs.String(), "skipping creator")
}

func TestDistribute_ZeroShareCreator(t *testing.T) {
	bank := newBank(t, escrowFloor()+sol)
	creators := []nft.Creator{
		{Address: creatorA, Share: 100},
		{Address: creatorC, Share: 0},
	}

	res, err := NewDistributor(nil).Distribute(creators, NewAccounts(creatorA, creatorC),
		5_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000), res.AmountPaid)
	assert.Equal(t, []Payout{{Creator: creatorA, Amount: 5_000}, {Creator: creatorC}}, res.Payouts)
}

func TestDistribute_ExternalPayer(t *testing.T) {
	bank := newBank(t, 0)
	creators := []nft.Creator{{Address: creatorA, Share: 60}, {Address: creatorC, Share: 40}}

	paid, err := TransferCreatorsFee(creators, NewAccounts(creatorA, creatorC),
		sol, Sol{Bank: bank, From: FromExternal{Key: payer}})
	require.NoError(t, err)
	assert.Equal(t, uint64(sol), paid)
	assert.Equal(t, uint64(9*sol), bank.Lamports(payer))
	assert.Equal(t, uint64(sol+600_000_000), bank.Lamports(creatorA))
}

func TestDistribute_ExternalPayerInsufficientFunds(t *testing.T) {
	bank := newBank(t, 0)
	creators := []nft.Creator{{Address: creatorA, Share: 100}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA),
		11*sol, Sol{Bank: bank, From: FromExternal{Key: payer}})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestDistribute_PDAKeepsRentFloor(t *testing.T) {
	bank := newBank(t, escrowFloor()+100)
	creators := []nft.Creator{{Address: creatorA, Share: 100}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA),
		1_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}

func TestDistribute_CreatorMismatchRollsBack(t *testing.T) {
	bank := newBank(t, escrowFloor()+sol)
	creators := []nft.Creator{{Address: creatorA, Share: 50}, {Address: creatorB, Share: 50}}

	err := bank.Atomic(func(b *ledger.Bank) error {
		_, err := TransferCreatorsFee(creators, NewAccounts(creatorA, creatorC),
			1_000, Sol{Bank: b, From: FromPDA{Key: escrow}})
		return err
	})
	require.ErrorIs(t, err, ErrCreatorMismatch)

	assert.Equal(t, uint64(sol), bank.Lamports(creatorA), "earlier payment rolled back")
	assert.Equal(t, escrowFloor()+sol, bank.Lamports(escrow))
}

func TestDistribute_NotEnoughAccounts(t *testing.T) {
	bank := newBank(t, escrowFloor()+sol)
	creators := []nft.Creator{{Address: creatorA, Share: 50}, {Address: creatorC, Share: 50}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA),
		1_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	assert.ErrorIs(t, err, ErrNotEnoughAccounts)
}

func TestDistribute_MalformedSharesArePermissive(t *testing.T) {
	bank := newBank(t, escrowFloor()+sol)
	creators := []nft.Creator{{Address: creatorA, Share: 70}, {Address: creatorC, Share: 70}}

	// Shares summing above 100 run the pool dry before the last creator.
	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA, creatorC),
		1_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	assert.Error(t, err)

	bank = newBank(t, escrowFloor()+sol)
	under := []nft.Creator{{Address: creatorA, Share: 20}, {Address: creatorC, Share: 30}}
	paid, err := TransferCreatorsFee(under, NewAccounts(creatorA, creatorC),
		1_000, Sol{Bank: bank, From: FromPDA{Key: escrow}})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), paid)
}

func TestDistribute_InvalidMode(t *testing.T) {
	creators := []nft.Creator{{Address: creatorA, Share: 100}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA), 1_000, nil)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = TransferCreatorsFee(creators, NewAccounts(creatorA), 1_000, Sol{})
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = TransferCreatorsFee(creators, NewAccounts(creatorA), 1_000, Spl{})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

// --- SPL mode ---

var (
	buyer = makeKey(0xBB)
	mint  = makeKey(0x4D)
)

func newSplBank(t *testing.T) (*ledger.Bank, solana.PublicKey) {
	t.Helper()
	bank := newBank(t, 0)
	src, err := bank.MintTo(payer, buyer, mint, solana.TokenProgramID, 10_000)
	require.NoError(t, err)
	return bank, src
}

func splMode(bank *ledger.Bank, src solana.PublicKey) Spl {
	return Spl{
		Tokens:             bank,
		Mint:               mint,
		TokenProgram:       solana.TokenProgramID,
		Authority:          buyer,
		SourceTokenAccount: src,
		RentPayer:          payer,
	}
}

func ata(t *testing.T, owner solana.PublicKey) solana.PublicKey {
	t.Helper()
	addr, err := nft.AssociatedTokenAddress(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	return addr
}

func TestDistribute_Spl(t *testing.T) {
	bank, src := newSplBank(t)
	creators := []nft.Creator{{Address: creatorA, Share: 60}, {Address: creatorB, Share: 40}}
	accounts := NewAccounts(creatorA, ata(t, creatorA), creatorB, ata(t, creatorB))

	res, err := NewDistributor(nil).Distribute(creators, accounts, 1_000, splMode(bank, src))
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000), res.AmountPaid)
	assert.Empty(t, res.Skipped, "token payments skip no one, even unfunded creators")
	assert.Equal(t, uint64(600), bank.TokenBalance(ata(t, creatorA)))
	assert.Equal(t, uint64(400), bank.TokenBalance(ata(t, creatorB)))
	assert.Equal(t, uint64(9_000), bank.TokenBalance(src))
	assert.Zero(t, accounts.Remaining())
}

func TestDistribute_SplZeroShareConsumesNoTokenAccount(t *testing.T) {
	bank, src := newSplBank(t)
	creators := []nft.Creator{{Address: creatorA, Share: 100}, {Address: creatorB, Share: 0}}
	accounts := NewAccounts(creatorA, ata(t, creatorA), creatorB)

	paid, err := TransferCreatorsFee(creators, accounts, 1_000, splMode(bank, src))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), paid)
	assert.Zero(t, accounts.Remaining())
	_, exists := bank.TokenAccount(ata(t, creatorB))
	assert.False(t, exists)
}

func TestDistribute_SplTokenAccountMismatch(t *testing.T) {
	bank, src := newSplBank(t)
	creators := []nft.Creator{{Address: creatorA, Share: 100}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA, ata(t, creatorB)), 1_000, splMode(bank, src))
	assert.ErrorIs(t, err, ErrTokenAccountMismatch)
}

func TestDistribute_SplInsufficientTokens(t *testing.T) {
	bank, src := newSplBank(t)
	creators := []nft.Creator{{Address: creatorA, Share: 100}}

	_, err := TransferCreatorsFee(creators, NewAccounts(creatorA, ata(t, creatorA)), 20_000, splMode(bank, src))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}
