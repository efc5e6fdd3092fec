package apr

import (
	"fmt"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// reportsPerBlock models reporters submitting one report every other block
// when projecting network-wide fee spend.
const reportsPerBlock = 0.5

// DefaultScenarioLevels are the total-network-stake levels, in loya, at
// which the scenario table is evaluated (50k through 10M TRB).
var DefaultScenarioLevels = []float64{
	50_000 * types.LoyaPerTRB,
	100_000 * types.LoyaPerTRB,
	200_000 * types.LoyaPerTRB,
	500_000 * types.LoyaPerTRB,
	1_000_000 * types.LoyaPerTRB,
	2_000_000 * types.LoyaPerTRB,
	5_000_000 * types.LoyaPerTRB,
	10_000_000 * types.LoyaPerTRB,
}

// ScenarioPoint is the network-wide APR at a hypothetical total stake.
type ScenarioPoint struct {
	TotalStake float64 `json:"total_stake"` // loya
	AprPercent float64 `json:"apr_percent"`
}

// AprByTotalStake answers "what would everyone earn if the whole network
// staked this much": yearly minted rewards minus yearly fee spend (one
// report every other block), spread over the hypothetical total stake.
func (e *Engine) AprByTotalStake(totalStake float64) (float64, error) {
	if totalStake <= 0 {
		return 0, fmt.Errorf("%w: total stake %.1f", ErrDegenerateInput, totalStake)
	}
	blocksPerYear := e.BlocksPerYear()
	mintPerYear := e.snap.AvgMintPerBlock * blocksPerYear
	feesPerYear := e.snap.AvgFeePerTx * blocksPerYear * reportsPerBlock
	return (mintPerYear - feesPerYear) / totalStake * 100, nil
}

// ScenarioTable evaluates AprByTotalStake at each level, skipping
// degenerate levels.
func (e *Engine) ScenarioTable(levels []float64) []ScenarioPoint {
	points := make([]ScenarioPoint, 0, len(levels))
	for _, level := range levels {
		apr, err := e.AprByTotalStake(level)
		if err != nil {
			continue
		}
		points = append(points, ScenarioPoint{TotalStake: level, AprPercent: apr})
	}
	return points
}

// CurrentNetworkApr is the scenario APR at the measured total stake.
func (e *Engine) CurrentNetworkApr() (float64, error) {
	return e.AprByTotalStake(float64(e.snap.TotalTokensActive))
}
