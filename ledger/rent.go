package ledger

import (
	"math"

	"github.com/solnft/toolbox-go/checked"
)

// AccountStorageOverhead is the per-account metadata size charged by rent.
const AccountStorageOverhead = 128

// TokenAccountSize is the size of an SPL token account without extensions.
const TokenAccountSize = 165

const (
	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
)

// Upper bounds for configured rent. With both at their maximum the floor of a
// 10 MiB account still fits in a uint64.
const (
	MaxLamportsPerByteYear = 1_000_000_000
	MaxExemptionThreshold  = 1000.0
)

// Rent holds the rent parameters of the cluster.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64 // years of rent an account must hold to be exempt
}

// DefaultRent returns the mainnet rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// MinimumBalance returns the rent-exempt floor for an account holding dataLen
// bytes. The result saturates at math.MaxUint64 instead of wrapping.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	if dataLen < 0 {
		dataLen = 0
	}
	perYear, err := checked.Mul(uint64(AccountStorageOverhead+dataLen), r.LamportsPerByteYear)
	if err != nil {
		return math.MaxUint64
	}
	floor := float64(perYear) * r.ExemptionThreshold
	switch {
	case math.IsNaN(floor) || floor <= 0:
		return 0
	case floor >= float64(math.MaxUint64):
		return math.MaxUint64
	}
	return uint64(floor)
}
