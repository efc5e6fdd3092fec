// Package mint reimplements the chain's time-based reward schedule so the
// checker can cross-check event-measured emission against the expected
// value, and fall back to it when a window contains no mint events.
package mint

import (
	"errors"
	"fmt"
	"time"
)

// DailyMintRate is the fixed Tellor Layer emission schedule in loya per day.
const DailyMintRate = 146_940_000

const millisecondsPerDay = 24 * 60 * 60 * 1000

// Minter mirrors the chain's x/mint provision arithmetic.
type Minter struct {
	BondDenom string
}

// NewMinter returns a Minter for the default bond denom.
func NewMinter() Minter {
	return Minter{BondDenom: "loya"}
}

// Validate checks the minter configuration.
func (m Minter) Validate() error {
	if m.BondDenom == "" {
		return errors.New("bond denom should not be empty string")
	}
	return nil
}

// BlockProvision returns the loya minted for a block interval of the given
// elapsed wall time. The chain computes this in integer milliseconds, so we
// do too: rate * elapsed_ms / ms_per_day with truncating division.
func (m Minter) BlockProvision(elapsed time.Duration) (int64, error) {
	if elapsed <= 0 {
		return 0, fmt.Errorf("elapsed time %s cannot be zero or negative", elapsed)
	}
	elapsedMs := elapsed.Milliseconds()
	return DailyMintRate * elapsedMs / millisecondsPerDay, nil
}

// ExpectedPerBlock returns the expected average mint per block given an
// average block time, used as the fallback emission estimate.
func (m Minter) ExpectedPerBlock(avgBlockTime time.Duration) (float64, error) {
	provision, err := m.BlockProvision(avgBlockTime)
	if err != nil {
		return 0, err
	}
	return float64(provision), nil
}
