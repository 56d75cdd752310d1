package fees

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solnft/toolbox-go/checked"
	"github.com/solnft/toolbox-go/nft"
)

// --- ComputeFees tests ---

func TestComputeFees_DefaultSchedule(t *testing.T) {
	got, err := ComputeFees(10_000, FeeConfig{
		TotalFeeBps:    200,
		BrokerFeePct:   50,
		MakerBrokerPct: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(200), got.TakerFee)
	assert.Equal(t, uint64(100), got.ProtocolFee)
	assert.Equal(t, uint64(100), got.BrokerFees())
	assert.Equal(t, uint64(80), got.MakerBrokerFee)
	assert.Equal(t, uint64(20), got.TakerBrokerFee)
}

func TestComputeFees_Table(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		cfg    FeeConfig
		want   Breakdown
	}{
		{"zero amount", 0, DefaultConfig(), Breakdown{}},
		{"no brokers", 1_000_000, FeeConfig{TotalFeeBps: 150}, Breakdown{TakerFee: 15_000, ProtocolFee: 15_000}},
		{"discount", 1_000_000, FeeConfig{TotalFeeBps: 200, BrokerFeePct: 50, MakerBrokerPct: 80, Discount: true},
			// 200 bps * 0.75 = 150 bps
			Breakdown{TakerFee: 15_000, ProtocolFee: 7_500, MakerBrokerFee: 6_000, TakerBrokerFee: 1_500}},
		{"floors dust", 999, DefaultConfig(),
			// 999 * 200 / 10000 = 19, broker 9, maker 7
			Breakdown{TakerFee: 19, ProtocolFee: 10, MakerBrokerFee: 7, TakerBrokerFee: 2}},
		{"maker takes all", 10_000, FeeConfig{TotalFeeBps: 200, BrokerFeePct: 50, MakerBrokerPct: 100},
			Breakdown{TakerFee: 200, ProtocolFee: 100, MakerBrokerFee: 100}},
		{"full rate", 10_000, FeeConfig{TotalFeeBps: 10_000}, Breakdown{TakerFee: 10_000, ProtocolFee: 10_000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeFees(tt.amount, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeFees_Errors(t *testing.T) {
	tests := []struct {
		name    string
		amount  uint64
		cfg     FeeConfig
		wantErr error
	}{
		{"brokers out-earn protocol", 10_000, FeeConfig{TotalFeeBps: 200, BrokerFeePct: 60}, checked.ErrArithmetic},
		{"broker pct above 100", 10_000, FeeConfig{TotalFeeBps: 200, BrokerFeePct: 101}, checked.ErrArithmetic},
		{"maker pct above 100", 10_000, FeeConfig{TotalFeeBps: 200, BrokerFeePct: 50, MakerBrokerPct: 101}, checked.ErrArithmetic},
		{"amount overflows", math.MaxUint64, DefaultConfig(), checked.ErrArithmetic},
		{"rate above 100%", 10_000, FeeConfig{TotalFeeBps: 10_001}, ErrFeeTooHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeFees(tt.amount, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeFees_Monotonic(t *testing.T) {
	cfg := DefaultConfig()
	var prev uint64
	for amount := uint64(0); amount < 50_000; amount += 7 {
		got, err := ComputeFees(amount, cfg)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.TakerFee, prev, "amount %d", amount)
		prev = got.TakerFee
	}
}

func TestFee(t *testing.T) {
	fee, err := Fee(1_000_000, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), fee)

	_, err = Fee(math.MaxUint64, 2)
	assert.ErrorIs(t, err, checked.ErrArithmetic)
}

// --- CreatorRoyalty tests ---

func TestCreatorRoyalty(t *testing.T) {
	tests := []struct {
		name string
		args RoyaltyArgs
		want uint64
	}{
		{"full royalty", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(100)}, 500},
		{"half royalty", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(50)}, 250},
		{"optional disabled", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000}, 0},
		{"zero pct", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(0)}, 0},
		{"enforced without pct", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, Enforced: true}, 500},
		{"enforced overrides pct", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(10), Enforced: true}, 500},
		{"enforced overrides bad pct", RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(200), Enforced: true}, 500},
		// 333 * 33 / 100 = 109 bps, 109 * 12345 / 10000 = 134
		{"floors twice", RoyaltyArgs{SellerFeeBps: 333, Amount: 12_345, RoyaltyPct: Pct(33)}, 134},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreatorRoyalty(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreatorRoyalty_BadPercentage(t *testing.T) {
	for _, pct := range []uint8{101, 150, 255} {
		_, err := CreatorRoyalty(RoyaltyArgs{SellerFeeBps: 500, Amount: 10_000, RoyaltyPct: Pct(pct)})
		assert.ErrorIs(t, err, ErrBadRoyaltyPercentage, "pct %d", pct)
	}
}

func TestCreatorRoyalty_Overflow(t *testing.T) {
	_, err := CreatorRoyalty(RoyaltyArgs{SellerFeeBps: 10_000, Amount: math.MaxUint64, RoyaltyPct: Pct(100)})
	assert.ErrorIs(t, err, checked.ErrArithmetic)
}

func TestCreatorRoyalty_EnforcedByStandard(t *testing.T) {
	pnft := nft.ProgrammableNonFungible
	got, err := CreatorRoyalty(RoyaltyArgs{
		SellerFeeBps: 1_000,
		Amount:       2_000_000,
		Enforced:     nft.IsRoyaltyEnforced(&pnft),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000), got)
}
