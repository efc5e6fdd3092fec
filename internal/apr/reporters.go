package apr

import (
	"sort"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// EvaluateReporters applies the engine to each reporter's observed power
// and commission. Reporters that are not active are still computed but
// flagged as non-earning; zero-power reporters get an explicit undefined
// row. The result is ranked descending by APR with ties broken by address,
// undefined rows last.
func EvaluateReporters(e *Engine, reporters []types.ReporterRecord) []types.ReporterAPR {
	out := make([]types.ReporterAPR, 0, len(reporters))
	for _, r := range reporters {
		entry := types.ReporterAPR{
			Address:        r.SelectorAddress,
			Moniker:        displayName(r),
			Power:          r.Power,
			CommissionRate: r.CommissionRate,
			Earning:        r.Status == types.ReporterActive,
		}
		power := float64(r.StakeEquivalent())
		aprPct, err := e.APRByStake(power)
		if err != nil {
			entry.Undefined = true
		} else {
			entry.AprPercent = aprPct
			entry.NetAnnualProfit = e.AnnualProfit(power) * (1 - r.CommissionRate)
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Undefined != b.Undefined {
			return !a.Undefined
		}
		if a.AprPercent != b.AprPercent {
			return a.AprPercent > b.AprPercent
		}
		return a.Address < b.Address
	})
	return out
}

func displayName(r types.ReporterRecord) string {
	if r.Moniker != "" {
		return r.Moniker
	}
	if len(r.SelectorAddress) > 12 {
		return r.SelectorAddress[:12] + "..."
	}
	return r.SelectorAddress
}

// AprAverages returns the power-weighted average and the median APR across
// earning reporters with a defined APR. Both are zero when no such
// reporter exists.
func AprAverages(reporterAprs []types.ReporterAPR) (weightedAvg, median float64) {
	var (
		weighted   float64
		totalPower float64
		values     []float64
	)
	for _, r := range reporterAprs {
		if r.Undefined || !r.Earning {
			continue
		}
		weighted += r.AprPercent * float64(r.Power)
		totalPower += float64(r.Power)
		values = append(values, r.AprPercent)
	}
	if totalPower == 0 {
		return 0, 0
	}
	weightedAvg = weighted / totalPower

	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	} else {
		median = values[n/2]
	}
	return weightedAvg, median
}
