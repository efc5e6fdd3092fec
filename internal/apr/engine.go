// Package apr turns a measured NetworkSnapshot into annualized-return and
// break-even figures. All arithmetic happens in loya; callers convert to
// display units at output time.
package apr

import (
	"errors"
	"fmt"
	"math"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// ErrDegenerateInput marks a zero-denominator query: zero total stake, zero
// mint rate for break-even, or a zero stake amount. The result is an
// explicit "undefined", never a computed zero.
var ErrDegenerateInput = errors.New("degenerate input")

const (
	secondsPerYear = 365 * 24 * 3600
	daysPerMonth   = 30
)

// Engine evaluates profitability against one immutable snapshot. The fee
// term is halved because a validator and reporter operating the same stake
// split the reporting cost between the two roles; that dual-role model is
// an input assumption, not a derived constant.
type Engine struct {
	snap types.NetworkSnapshot
}

// NewEngine validates the snapshot's denominators and returns an engine.
func NewEngine(snap types.NetworkSnapshot) (*Engine, error) {
	if snap.AvgBlockTime <= 0 {
		return nil, fmt.Errorf("%w: average block time %.3fs", ErrDegenerateInput, snap.AvgBlockTime)
	}
	if snap.TotalTokensActive <= 0 {
		return nil, fmt.Errorf("%w: total active stake %d", ErrDegenerateInput, snap.TotalTokensActive)
	}
	if snap.AvgMintPerBlock < 0 {
		return nil, fmt.Errorf("%w: negative mint rate %.3f", ErrDegenerateInput, snap.AvgMintPerBlock)
	}
	if snap.AvgFeePerTx < 0 {
		return nil, fmt.Errorf("%w: negative fee %.3f", ErrDegenerateInput, snap.AvgFeePerTx)
	}
	return &Engine{snap: snap}, nil
}

// Snapshot returns the snapshot the engine was built from.
func (e *Engine) Snapshot() types.NetworkSnapshot { return e.snap }

// ProportionStake is the share of the active network stake a given stake
// amount represents.
func (e *Engine) ProportionStake(stake float64) float64 {
	return stake / float64(e.snap.TotalTokensActive)
}

// ProfitPerBlock is the expected per-block profit at a given stake:
// proportional share of the minted reward minus half the reporting fee.
func (e *Engine) ProfitPerBlock(stake float64) float64 {
	return e.ProportionStake(stake)*e.snap.AvgMintPerBlock - e.snap.AvgFeePerTx/2
}

// BlocksPerYear projects the sampled block time over a year.
func (e *Engine) BlocksPerYear() float64 {
	return secondsPerYear / e.snap.AvgBlockTime
}

// AnnualProfit is the per-block profit scaled to a year.
func (e *Engine) AnnualProfit(stake float64) float64 {
	return e.ProfitPerBlock(stake) * e.BlocksPerYear()
}

// APRByStake returns the annual percentage return at a given stake amount.
// A non-positive stake is ErrDegenerateInput.
func (e *Engine) APRByStake(stake float64) (float64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("%w: stake %.1f", ErrDegenerateInput, stake)
	}
	return e.AnnualProfit(stake) / stake * 100, nil
}

// BreakEvenStake solves APR = 0 analytically: the stake at which the
// proportional mint income exactly covers the halved fee. With a zero mint
// rate no stake breaks even and the result is ErrDegenerateInput: the
// break-even is undefined, not zero.
func (e *Engine) BreakEvenStake() (float64, error) {
	if e.snap.AvgMintPerBlock == 0 {
		return 0, fmt.Errorf("%w: zero mint rate, break-even undefined", ErrDegenerateInput)
	}
	return (e.snap.AvgFeePerTx / 2) * float64(e.snap.TotalTokensActive) / e.snap.AvgMintPerBlock, nil
}

// Projection scales the per-block profit at a stake across fixed time
// horizons. The month is 30 days, the year 365.
func (e *Engine) Projection(stake float64) types.ProfitProjection {
	perBlock := e.ProfitPerBlock(stake)
	blocksPerHour := 3600 / e.snap.AvgBlockTime
	perDay := perBlock * blocksPerHour * 24
	return types.ProfitProjection{
		PerBlock: perBlock,
		PerHour:  perBlock * blocksPerHour,
		PerDay:   perDay,
		PerMonth: perDay * daysPerMonth,
		PerYear:  perDay * 365,
	}
}

// Curve evaluates the APR at each candidate stake level, marking the point
// nearest the break-even stake and the point nearest the measured median
// validator stake. Levels must be ascending; nearest means smallest
// absolute difference with ties resolved to the lower level. Non-positive
// levels yield explicit undefined points.
func (e *Engine) Curve(levels []float64, medianStake float64) []types.AprPoint {
	points := make([]types.AprPoint, len(levels))
	for i, stake := range levels {
		p := types.AprPoint{StakeAmount: stake}
		apr, err := e.APRByStake(stake)
		if err != nil {
			p.Undefined = true
		} else {
			p.AprPercent = apr
		}
		points[i] = p
	}

	if breakEven, err := e.BreakEvenStake(); err == nil {
		if i := nearestIndex(levels, breakEven); i >= 0 {
			points[i].IsBreakEven = true
		}
	}
	if medianStake > 0 {
		if i := nearestIndex(levels, medianStake); i >= 0 {
			points[i].IsMedianMarker = true
		}
	}
	return points
}

// nearestIndex returns the index of the level closest to target. Iterating
// ascending with a strict comparison keeps the first, and therefore lower,
// level on ties.
func nearestIndex(levels []float64, target float64) int {
	best := -1
	bestDiff := math.Inf(1)
	for i, level := range levels {
		diff := math.Abs(level - target)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}
