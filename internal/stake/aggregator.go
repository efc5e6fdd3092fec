// Package stake aggregates validator and reporter sets into distribution
// statistics consumed by the APR engine.
package stake

import (
	"sort"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// AggregateValidators computes token totals and counts per bond status and
// the quartiles of the bonded stake distribution. Jailed validators are
// totalled separately and never participate in the quartiles. An empty set
// yields all-zero stats; callers must treat APR computation as unavailable
// in that case.
func AggregateValidators(validators []types.ValidatorRecord) types.StakeStats {
	var stats types.StakeStats

	for _, v := range validators {
		switch v.Status {
		case types.StatusBonded:
			stats.TotalActive += v.Tokens
			stats.ActiveCount++
			stats.ActiveStakes = append(stats.ActiveStakes, v.Tokens)
		case types.StatusUnbonding:
			stats.TotalUnbonding += v.Tokens
			stats.UnbondingCount++
		case types.StatusJailed:
			stats.TotalJailed += v.Tokens
			stats.JailedCount++
		default:
			stats.TotalUnbonded += v.Tokens
			stats.UnbondedCount++
		}
	}

	sort.Slice(stats.ActiveStakes, func(i, j int) bool {
		return stats.ActiveStakes[i] < stats.ActiveStakes[j]
	})
	stats.Quartiles = quartiles(stats.ActiveStakes)
	return stats
}

// quartiles computes Q1/median/Q3 with linear interpolation between order
// statistics. The input must be sorted ascending.
func quartiles(sorted []int64) types.Quartiles {
	if len(sorted) == 0 {
		return types.Quartiles{}
	}
	return types.Quartiles{
		Q1:     percentile(sorted, 0.25),
		Median: percentile(sorted, 0.50),
		Q3:     percentile(sorted, 0.75),
	}
}

func percentile(sorted []int64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return float64(sorted[0])
	}
	pos := q * float64(n-1)
	lower := int(pos)
	if lower >= n-1 {
		return float64(sorted[n-1])
	}
	frac := pos - float64(lower)
	return float64(sorted[lower]) + frac*float64(sorted[lower+1]-sorted[lower])
}

// AggregateReporters groups the reporter set by status and totals active
// power. Active means non-jailed with power above zero; reporters with zero
// power are inactive even when not jailed.
func AggregateReporters(reporters []types.ReporterRecord) types.ReporterStats {
	var stats types.ReporterStats

	for _, r := range reporters {
		switch r.Status {
		case types.ReporterJailed:
			stats.JailedCount++
			stats.Jailed = append(stats.Jailed, r)
		case types.ReporterActive:
			stats.ActiveCount++
			stats.TotalActivePower += r.Power
			stats.Active = append(stats.Active, r)
		default:
			stats.InactiveCount++
			stats.Inactive = append(stats.Inactive, r)
		}
	}
	return stats
}
