// Package export writes run artifacts: CSV files on disk and, when a
// broker is configured, a snapshot message on Kafka.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tellor-io/layer-profitability-checker/internal/checker"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// WriteCSV writes the run's artifact files into dir, creating it if
// needed: a snapshot summary, the APR curve, the per-reporter APRs and the
// profitability projections.
func WriteCSV(dir string, res *checker.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	if err := writeFile(dir, "snapshot.csv", snapshotRows(res.Snapshot)); err != nil {
		return err
	}
	if err := writeFile(dir, "apr_curve.csv", curveRows(res.Curve)); err != nil {
		return err
	}
	if err := writeFile(dir, "reporter_aprs.csv", reporterRows(res.ReporterAprs)); err != nil {
		return err
	}
	return writeFile(dir, "profitability.csv", projectionRows(res))
}

func writeFile(dir, name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func snapshotRows(snap types.NetworkSnapshot) [][]string {
	return [][]string{
		{"field", "value"},
		{"chain_id", snap.ChainID},
		{"current_height", strconv.FormatInt(snap.CurrentHeight, 10)},
		{"avg_block_time_seconds", formatFloat(snap.AvgBlockTime)},
		{"avg_mint_per_block_loya", formatFloat(snap.AvgMintPerBlock)},
		{"total_tokens_active_loya", strconv.FormatInt(snap.TotalTokensActive, 10)},
		{"total_tokens_jailed_loya", strconv.FormatInt(snap.TotalTokensJailed, 10)},
		{"avg_fee_per_tx_loya", formatFloat(snap.AvgFeePerTx)},
		{"min_gas_price", formatFloat(snap.MinGasPrice)},
		{"mint_data_source", snap.MintDataSource},
		{"fee_fallback", strconv.FormatBool(snap.FeeFallback)},
	}
}

func curveRows(points []types.AprPoint) [][]string {
	rows := [][]string{{"stake_trb", "apr_percent", "undefined", "is_break_even", "is_median"}}
	for _, p := range points {
		rows = append(rows, []string{
			formatFloat(types.TRB(p.StakeAmount)),
			formatFloat(p.AprPercent),
			strconv.FormatBool(p.Undefined),
			strconv.FormatBool(p.IsBreakEven),
			strconv.FormatBool(p.IsMedianMarker),
		})
	}
	return rows
}

func reporterRows(reporters []types.ReporterAPR) [][]string {
	rows := [][]string{{"address", "moniker", "power_trb", "apr_percent", "commission_rate", "net_annual_profit_trb", "earning"}}
	for _, r := range reporters {
		rows = append(rows, []string{
			r.Address,
			r.Moniker,
			formatFloat(types.TRB(float64(r.Power))),
			formatFloat(r.AprPercent),
			formatFloat(r.CommissionRate),
			formatFloat(types.TRB(r.NetAnnualProfit)),
			strconv.FormatBool(r.Earning),
		})
	}
	return rows
}

func projectionRows(res *checker.Result) [][]string {
	return [][]string{
		{"period", "avg_stake_profit_trb", "median_stake_profit_trb"},
		{"per_block", formatFloat(types.TRB(res.AvgProjection.PerBlock)), formatFloat(types.TRB(res.MedianProjection.PerBlock))},
		{"per_hour", formatFloat(types.TRB(res.AvgProjection.PerHour)), formatFloat(types.TRB(res.MedianProjection.PerHour))},
		{"per_day", formatFloat(types.TRB(res.AvgProjection.PerDay)), formatFloat(types.TRB(res.MedianProjection.PerDay))},
		{"per_month", formatFloat(types.TRB(res.AvgProjection.PerMonth)), formatFloat(types.TRB(res.MedianProjection.PerMonth))},
		{"per_year", formatFloat(types.TRB(res.AvgProjection.PerYear)), formatFloat(types.TRB(res.MedianProjection.PerYear))},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
