// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/solnft/toolbox-go/cnft"
	"github.com/solnft/toolbox-go/fees"
	"github.com/solnft/toolbox-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.TakerFeeBps > fees.HundredPctBps {
		return fmt.Errorf("%w: %d", ErrInvalidFeeBps, cfg.TakerFeeBps)
	}
	if cfg.BrokerFeePct > fees.HundredPct {
		return fmt.Errorf("%w: broker fee %d", ErrInvalidPercentage, cfg.BrokerFeePct)
	}
	if cfg.MakerBrokerPct > fees.HundredPct {
		return fmt.Errorf("%w: maker broker %d", ErrInvalidPercentage, cfg.MakerBrokerPct)
	}

	if cfg.LamportsPerByteYear == 0 || cfg.LamportsPerByteYear > ledger.MaxLamportsPerByteYear {
		return fmt.Errorf("%w: %d lamports per byte-year", ErrInvalidRent, cfg.LamportsPerByteYear)
	}
	if !(cfg.RentExemptionThreshold > 0 && cfg.RentExemptionThreshold <= ledger.MaxExemptionThreshold) {
		return fmt.Errorf("%w: exemption threshold %g", ErrInvalidRent, cfg.RentExemptionThreshold)
	}

	if cfg.TreeDepth < 1 || cfg.TreeDepth > cnft.MaxDepth {
		return fmt.Errorf("%w: %d", ErrInvalidTreeDepth, cfg.TreeDepth)
	}

	return nil
}
