// Package fees computes marketplace fees and creator royalties with
// overflow-checked basis-point math. All division floors; rounding dust
// stays with the payer.
package fees

import (
	"fmt"

	"github.com/solnft/toolbox-go/checked"
)

const (
	HundredPctBps = 10_000
	HundredPct    = 100

	// DiscountBps is the fee-rate reduction applied when FeeConfig.Discount is set.
	DiscountBps = 2_500

	DefaultTakerFeeBps    = 200
	DefaultBrokerFeePct   = 50
	DefaultMakerBrokerPct = 80
)

// FeeConfig is the fee schedule applied to a single sale.
type FeeConfig struct {
	TotalFeeBps    uint16 // protocol + broker fees, in basis points
	BrokerFeePct   uint16 // share of the total fee going to brokers (0-100)
	MakerBrokerPct uint16 // share of the broker pool going to the maker broker (0-100)
	Discount       bool
}

// DefaultConfig returns the standard marketplace schedule.
func DefaultConfig() FeeConfig {
	return FeeConfig{
		TotalFeeBps:    DefaultTakerFeeBps,
		BrokerFeePct:   DefaultBrokerFeePct,
		MakerBrokerPct: DefaultMakerBrokerPct,
	}
}

// Breakdown is the result of ComputeFees.
type Breakdown struct {
	// TakerFee is the total fee sans royalties: protocol fee + broker fees.
	TakerFee       uint64
	ProtocolFee    uint64
	MakerBrokerFee uint64
	TakerBrokerFee uint64
}

// BrokerFees returns the combined maker and taker broker fees.
func (b Breakdown) BrokerFees() uint64 {
	return b.MakerBrokerFee + b.TakerBrokerFee
}

// ComputeFees splits the fee on amount into protocol and broker portions.
func ComputeFees(amount uint64, cfg FeeConfig) (Breakdown, error) {
	if cfg.TotalFeeBps > HundredPctBps {
		return Breakdown{}, fmt.Errorf("%w: %d bps", ErrFeeTooHigh, cfg.TotalFeeBps)
	}
	bps := uint64(cfg.TotalFeeBps)
	if cfg.Discount {
		discounted, err := checked.MulDiv(bps, HundredPctBps-DiscountBps, HundredPctBps)
		if err != nil {
			return Breakdown{}, fmt.Errorf("fees: discount: %w", err)
		}
		bps = discounted
	}

	total, err := checked.MulDiv(amount, bps, HundredPctBps)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fees: total fee: %w", err)
	}

	brokerPool, err := checked.MulDiv(total, uint64(cfg.BrokerFeePct), HundredPct)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fees: broker pool: %w", err)
	}

	protocol, err := checked.Sub(total, brokerPool)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fees: protocol fee: %w", err)
	}

	maker, err := checked.MulDiv(brokerPool, uint64(cfg.MakerBrokerPct), HundredPct)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fees: maker broker fee: %w", err)
	}

	taker, err := checked.Sub(brokerPool, maker)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fees: taker broker fee: %w", err)
	}

	// Brokers may never out-earn the protocol (equal when both are zero).
	if protocol < brokerPool {
		return Breakdown{}, fmt.Errorf("fees: broker fees %d exceed protocol fee %d: %w",
			brokerPool, protocol, checked.ErrArithmetic)
	}

	return Breakdown{
		TakerFee:       total,
		ProtocolFee:    protocol,
		MakerBrokerFee: maker,
		TakerBrokerFee: taker,
	}, nil
}

// Fee returns amount * bps / 10000.
func Fee(amount uint64, bps uint16) (uint64, error) {
	fee, err := checked.MulDiv(uint64(bps), amount, HundredPctBps)
	if err != nil {
		return 0, fmt.Errorf("fees: fee: %w", err)
	}
	return fee, nil
}
