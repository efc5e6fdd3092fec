// Package fees estimates the cost of submitting oracle reports by sampling
// recent submit-value transactions from block results.
package fees

import (
	"context"
	"fmt"
	"log"

	"github.com/tellor-io/layer-profitability-checker/internal/rpc"
	"github.com/tellor-io/layer-profitability-checker/internal/sampler"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// SubmitValueMsgType is the message-type signature that marks a
// transaction as an oracle report submission.
const SubmitValueMsgType = "/layer.oracle.MsgSubmitValue"

// EstimatedGasPerSubmission is the fixed gas assumption used for the
// min-gas-price fallback when a window contains no observable submissions.
const EstimatedGasPerSubmission = 200_000

// maxTxsPerBlock caps how many submissions are sampled from a single block
// so one busy block cannot dominate the average.
const maxTxsPerBlock = 2

// Estimator samples reporting costs over a block window.
type Estimator struct {
	reader rpc.Reader

	// MinGasPriceOverride, when positive, takes precedence over the
	// globalfee query (config-supplied).
	MinGasPriceOverride float64
}

// New creates a fee Estimator.
func New(reader rpc.Reader) *Estimator {
	return &Estimator{reader: reader}
}

// MinGasPrice returns the minimum gas price in loya per gas unit, preferring
// the configured override, then the chain's globalfee module.
func (e *Estimator) MinGasPrice(ctx context.Context) (float64, error) {
	if e.MinGasPriceOverride > 0 {
		return e.MinGasPriceOverride, nil
	}
	coins, err := e.reader.MinGasPrices(ctx)
	if err != nil {
		return 0, fmt.Errorf("querying min gas prices: %w", err)
	}
	for _, c := range coins {
		if c.Denom == types.BondDenom {
			return c.Amount, nil
		}
	}
	return 0, fmt.Errorf("no %s entry in minimum gas prices", types.BondDenom)
}

// EstimateAvgFee scans the window of blocks below the current height for
// submit-value transactions and averages fee and gas over the matching
// transactions found. When the whole window holds no matching transaction
// the result falls back to min_gas_price * EstimatedGasPerSubmission and is
// flagged low-confidence.
func (e *Estimator) EstimateAvgFee(ctx context.Context, window int) (types.FeeStats, error) {
	if window <= 0 {
		return types.FeeStats{}, fmt.Errorf("window must be positive, got %d", window)
	}

	minGasPrice, err := e.MinGasPrice(ctx)
	if err != nil {
		log.Printf("[fees] could not determine min gas price: %v", err)
		minGasPrice = 0
	}

	status, err := e.reader.Status(ctx)
	if err != nil {
		return types.FeeStats{}, fmt.Errorf("fetching chain status: %w", err)
	}

	stats := types.FeeStats{MinGasPrice: minGasPrice}

	var totalFee, totalGasWanted, totalGasUsed, totalMinCost float64
	for h := status.LatestHeight; h > status.LatestHeight-int64(window) && h >= 1; h-- {
		block, err := e.reader.BlockResults(ctx, h)
		if err != nil {
			log.Printf("[fees] skipping block %d: %v", h, err)
			stats.BlocksSkipped++
			continue
		}
		stats.BlocksScanned++

		sampled := 0
		for _, tx := range block.TxResults {
			if sampled >= maxTxsPerBlock {
				break
			}
			if !isSubmitValue(tx) {
				continue
			}
			fee, err := txFee(tx)
			if err != nil {
				log.Printf("[fees] unparsable fee at height %d: %v", h, err)
				continue
			}
			sampled++
			stats.TxCount++
			totalFee += float64(fee)
			totalGasWanted += float64(tx.GasWanted)
			totalGasUsed += float64(tx.GasUsed)
			totalMinCost += float64(tx.GasUsed) * minGasPrice
		}
	}

	if stats.BlocksScanned == 0 {
		return types.FeeStats{}, fmt.Errorf("%w: no block results in window of %d", sampler.ErrInsufficientData, window)
	}

	if stats.TxCount == 0 {
		stats.AvgFee = minGasPrice * EstimatedGasPerSubmission
		stats.LowConfidence = true
		log.Printf("[fees] no submit-value txs in %d blocks, falling back to min gas estimate (%.1f loya)",
			stats.BlocksScanned, stats.AvgFee)
		return stats, nil
	}

	n := float64(stats.TxCount)
	stats.AvgFee = totalFee / n
	stats.AvgGasWanted = totalGasWanted / n
	stats.AvgGasUsed = totalGasUsed / n
	stats.AvgMinCost = totalMinCost / n
	return stats, nil
}

// isSubmitValue reports whether a transaction carried a submit-value
// message, identified by the action attribute of its message event.
func isSubmitValue(tx types.TxResult) bool {
	action, ok := sampler.MatchEvent(tx.Events, "message", "action")
	return ok && action == SubmitValueMsgType
}

// txFee extracts the paid fee in loya from a transaction's tx event.
func txFee(tx types.TxResult) (int64, error) {
	value, ok := sampler.MatchEvent(tx.Events, "tx", "fee")
	if !ok || value == "" {
		return 0, nil
	}
	return sampler.ParseCoinAmount(value)
}
