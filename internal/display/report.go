package display

import (
	"fmt"

	"github.com/tellor-io/layer-profitability-checker/internal/checker"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// Report prints the full terminal report for one run.
func Report(res *checker.Result) {
	snap := res.Snapshot
	fmt.Printf("\n  Chain ID: %s (height %d)\n", snap.ChainID, snap.CurrentHeight)

	SectionHeader("staking distribution")
	st := res.StakeStats
	avgStake := 0.0
	if st.ActiveCount > 0 {
		avgStake = float64(st.TotalActive) / float64(st.ActiveCount)
	}
	InfoBox("stake distribution", []Pair{
		{"Num Active Validators", fmt.Sprintf("%d", st.ActiveCount)},
		{"Total Active Validator Tokens", trb(float64(st.TotalActive))},
		{"Avg Active Validator Tokens", trb(avgStake)},
		{"Median Active Validator Tokens", trb(st.Quartiles.Median)},
		{"Q1 / Q3", trb(st.Quartiles.Q1) + " / " + trb(st.Quartiles.Q3)},
	})
	Table("validator status", []string{"Status", "Count", "Tokens (TRB)"}, [][]string{
		{"Active", fmt.Sprintf("%d", st.ActiveCount), trbPlain(float64(st.TotalActive))},
		{"Unbonding", fmt.Sprintf("%d", st.UnbondingCount), trbPlain(float64(st.TotalUnbonding))},
		{"Unbonded", fmt.Sprintf("%d", st.UnbondedCount), trbPlain(float64(st.TotalUnbonded))},
		{"Jailed", fmt.Sprintf("%d", st.JailedCount), trbPlain(float64(st.TotalJailed))},
	})

	SectionHeader("current block times")
	InfoBox("block time stats", []Pair{
		{"Samples", fmt.Sprintf("%d", len(res.BlockSamples))},
		{"Avg Block Time", fmt.Sprintf("%.2f seconds", snap.AvgBlockTime)},
		{"Est Blocks per Hour", fmt.Sprintf("~ %.0f", 3600/snap.AvgBlockTime)},
		{"Est Blocks per Day", fmt.Sprintf("~ %.0f", 86400/snap.AvgBlockTime)},
	})

	SectionHeader("time based rewards")
	blocksPerDay := 86400 / snap.AvgBlockTime
	InfoBox("minting stats", []Pair{
		{"Data Source", snap.MintDataSource},
		{"Mint Events in Window", fmt.Sprintf("%d", len(res.MintEvents))},
		{"Average TBR Per Block", fmt.Sprintf("%.1f loya", snap.AvgMintPerBlock)},
		{"Projected Daily TBR", "~ " + trb(snap.AvgMintPerBlock*blocksPerDay)},
		{"Projected Annual TBR", "~ " + trb(snap.AvgMintPerBlock*blocksPerDay*365)},
	})

	SectionHeader("reporting costs")
	fs := res.FeeStats
	confidence := "measured"
	if fs.LowConfidence {
		confidence = "min-gas fallback"
	}
	InfoBox("submit value stats", []Pair{
		{"Sampled Txs", fmt.Sprintf("%d (%s)", fs.TxCount, confidence)},
		{"Avg Gas Wanted", fmt.Sprintf("%.0f", fs.AvgGasWanted)},
		{"Avg Gas Used", fmt.Sprintf("%.0f", fs.AvgGasUsed)},
		{"Min Gas Price", fmt.Sprintf("%.6f loya", fs.MinGasPrice)},
		{"Avg Fee Paid", fmt.Sprintf("%.1f loya", fs.AvgFee)},
	})

	SectionHeader("reporters")
	rs := res.ReporterStats
	InfoBox("reporter summary", []Pair{
		{"Total Reporters", fmt.Sprintf("%d", rs.Total())},
		{"Active Reporters", fmt.Sprintf("%d", rs.ActiveCount)},
		{"Inactive Reporters", fmt.Sprintf("%d", rs.InactiveCount)},
		{"Jailed Reporters", fmt.Sprintf("%d", rs.JailedCount)},
		{"Total Active Power", trb(float64(rs.TotalActivePower))},
	})

	if len(res.FeedTips) > 0 {
		SectionHeader("current tips")
		rows := make([][]string, 0, len(res.FeedTips))
		for _, t := range res.FeedTips {
			rows = append(rows, []string{t.Name, trbPlain(float64(t.Amount))})
		}
		Table("current tips by price feed", []string{"Feed", "Tip (TRB)"}, rows)
		summary := []Pair{
			{"Currently Tipped Queries", fmt.Sprintf("%d", res.TipSummary.TippedFeeds)},
			{"Total Tip Amount", trb(float64(res.TipSummary.Total))},
			{"Average Tip", trb(res.TipSummary.Average())},
			{"Highest Tip", trb(float64(res.TipSummary.Highest))},
			{"Lowest Tip", trb(float64(res.TipSummary.Lowest))},
		}
		if res.TotalTipsOK {
			summary = append(summary, Pair{"All-Time Tips", trb(float64(res.TotalTips))})
		}
		InfoBox("tipping summary", summary)
	}
	if res.AvailableTipsOK {
		InfoBox("account available tips", []Pair{
			{"Claimable reporter rewards", trb(float64(res.AvailableTips))},
		})
	}

	SectionHeader("projected profitability")
	Table("profitability stats",
		[]string{"Time Period", "Avg Stake Profit (TRB)", "Median Stake Profit (TRB)"},
		[][]string{
			{"Per Block", trbPlain(res.AvgProjection.PerBlock), trbPlain(res.MedianProjection.PerBlock)},
			{"Per Hour", trbPlain(res.AvgProjection.PerHour), trbPlain(res.MedianProjection.PerHour)},
			{"Per Day", trbPlain(res.AvgProjection.PerDay), trbPlain(res.MedianProjection.PerDay)},
			{"Per Month", trbPlain(res.AvgProjection.PerMonth), trbPlain(res.MedianProjection.PerMonth)},
			{"Per Year", trbPlain(res.AvgProjection.PerYear), trbPlain(res.MedianProjection.PerYear)},
		})

	if res.BreakEvenDefined {
		InfoBox("break-even analysis", []Pair{
			{"Break-even Stake", trb(res.BreakEvenStake)},
		})
	} else {
		InfoBox("break-even analysis", []Pair{
			{"Break-even Stake", "undefined (zero mint rate)"},
		})
	}

	SectionHeader("apr vs individual stake")
	curveRows := make([][]string, 0, len(res.Curve))
	for _, p := range res.Curve {
		marker := ""
		if p.IsBreakEven {
			marker = "break-even"
		}
		if p.IsMedianMarker {
			if marker != "" {
				marker += ", "
			}
			marker += "median"
		}
		aprCell := "undefined"
		if !p.Undefined {
			aprCell = fmt.Sprintf("%.1f%%", p.AprPercent)
		}
		curveRows = append(curveRows, []string{trbPlain(p.StakeAmount), aprCell, marker})
	}
	Table("apr by stake level", []string{"Stake (TRB)", "APR", "Marker"}, curveRows)

	SectionHeader("current reporter aprs")
	InfoBox("apr averages", []Pair{
		{"Weighted Avg APR", fmt.Sprintf("%.2f%%", res.WeightedApr)},
		{"Median APR", fmt.Sprintf("%.2f%%", res.MedianApr)},
	})
	reporterRows := make([][]string, 0, len(res.ReporterAprs))
	for _, r := range res.ReporterAprs {
		aprCell := "undefined"
		if !r.Undefined {
			aprCell = fmt.Sprintf("%.1f%%", r.AprPercent)
		}
		status := "earning"
		if !r.Earning {
			status = "non-earning"
		}
		reporterRows = append(reporterRows, []string{
			truncate(r.Moniker, 20),
			trbPlain(float64(r.Power)),
			aprCell,
			fmt.Sprintf("%.0f%%", r.CommissionRate*100),
			status,
		})
	}
	Table("reporter aprs", []string{"Reporter", "Power (TRB)", "Max APR", "Commission", "Status"}, reporterRows)

	SectionHeader("apr by total stake")
	scenarioPairs := make([]Pair, 0, len(res.Scenarios)+1)
	if res.NetworkAprDefined {
		scenarioPairs = append(scenarioPairs, Pair{
			fmt.Sprintf("%.1f%% APR (Current)", res.CurrentNetworkApr),
			trb(float64(snap.TotalTokensActive)),
		})
	}
	for _, sc := range res.Scenarios {
		scenarioPairs = append(scenarioPairs, Pair{
			fmt.Sprintf("%.1f%% APR", sc.AprPercent),
			trb(sc.TotalStake),
		})
	}
	InfoBox("APR target points", scenarioPairs)
}

func trb(loya float64) string {
	return fmt.Sprintf("%.1f TRB", types.TRB(loya))
}

func trbPlain(loya float64) string {
	return fmt.Sprintf("%.1f", types.TRB(loya))
}
