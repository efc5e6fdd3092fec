// Package checker orchestrates one profitability run: sample the chain,
// aggregate stake, estimate fees, build the snapshot, and evaluate APR.
// Components never call back upstream; data flows one direction into the
// immutable NetworkSnapshot and out through the engine.
package checker

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/tellor-io/layer-profitability-checker/internal/apr"
	"github.com/tellor-io/layer-profitability-checker/internal/config"
	"github.com/tellor-io/layer-profitability-checker/internal/fees"
	"github.com/tellor-io/layer-profitability-checker/internal/mint"
	"github.com/tellor-io/layer-profitability-checker/internal/rpc"
	"github.com/tellor-io/layer-profitability-checker/internal/sampler"
	"github.com/tellor-io/layer-profitability-checker/internal/stake"
	"github.com/tellor-io/layer-profitability-checker/internal/tips"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// mintSanityToleranceLoya is how far the event-measured per-block mint may
// drift from the schedule-derived value before the run warns about it.
const mintSanityToleranceLoya = 100

// Mint data source labels for the snapshot.
const (
	MintSourceEvents   = "events"
	MintSourceExpected = "expected"
)

// Result is everything one run measured and derived. It is built once and
// handed to the display and export layers as plain data.
type Result struct {
	Snapshot      types.NetworkSnapshot
	BlockSamples  []types.BlockSample
	MintEvents    []types.MintEvent
	StakeStats    types.StakeStats
	ReporterStats types.ReporterStats
	FeeStats      types.FeeStats

	BreakEvenStake   float64
	BreakEvenDefined bool

	Curve        []types.AprPoint
	ReporterAprs []types.ReporterAPR
	WeightedApr  float64
	MedianApr    float64

	MedianProjection types.ProfitProjection
	AvgProjection    types.ProfitProjection

	Scenarios         []apr.ScenarioPoint
	CurrentNetworkApr float64
	NetworkAprDefined bool

	FeedTips   []tips.FeedTip
	TipSummary tips.Summary

	TotalTips   int64
	TotalTipsOK bool

	AvailableTips   int64
	AvailableTipsOK bool
}

// Run performs one complete sampling and evaluation pass. Failures on
// required inputs (chain status, at least one bonded validator, block
// times) abort with a wrapped cause; optional quantities degrade with a
// logged fallback instead.
func Run(ctx context.Context, cfg *config.Config, reader rpc.Reader) (*Result, error) {
	status, err := reader.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain status unavailable: %w", err)
	}
	log.Printf("[checker] chain %s at height %d", status.ChainID, status.LatestHeight)

	s := sampler.New(reader, cfg.Workers)

	avgBlockTime, samples, err := s.SampleBlockTimes(ctx, cfg.BlockWindow)
	if err != nil {
		return nil, fmt.Errorf("sampling block times: %w", err)
	}
	log.Printf("[checker] avg block time %.2fs over %d samples", avgBlockTime, len(samples))

	validators, err := reader.Validators(ctx)
	if err != nil {
		return nil, fmt.Errorf("validator list unavailable: %w", err)
	}
	stakeStats := stake.AggregateValidators(validators)
	if stakeStats.ActiveCount == 0 {
		return nil, fmt.Errorf("no bonded validators found, cannot compute APR")
	}

	avgMint, mintEvents, mintSource := measureMint(ctx, s, cfg.MintWindow, avgBlockTime)

	feeStats := measureFees(ctx, reader, cfg)

	reporters, err := reader.Reporters(ctx)
	if err != nil {
		log.Printf("[checker] reporter list unavailable, skipping reporter APRs: %v", err)
	}
	reporterStats := stake.AggregateReporters(reporters)

	// Every rate below comes from the same sampled window; the snapshot is
	// immutable from here on.
	snap := types.NetworkSnapshot{
		ChainID:           status.ChainID,
		CurrentHeight:     status.LatestHeight,
		AvgBlockTime:      avgBlockTime,
		AvgMintPerBlock:   avgMint,
		TotalTokensActive: stakeStats.TotalActive,
		TotalTokensJailed: stakeStats.TotalJailed,
		AvgFeePerTx:       feeStats.AvgFee,
		MinGasPrice:       feeStats.MinGasPrice,
		MintDataSource:    mintSource,
		FeeFallback:       feeStats.LowConfidence,
	}

	engine, err := apr.NewEngine(snap)
	if err != nil {
		return nil, fmt.Errorf("building APR engine: %w", err)
	}

	res := &Result{
		Snapshot:      snap,
		BlockSamples:  samples,
		MintEvents:    mintEvents,
		StakeStats:    stakeStats,
		ReporterStats: reporterStats,
		FeeStats:      feeStats,
	}

	median := stakeStats.Quartiles.Median
	if breakEven, err := engine.BreakEvenStake(); err == nil {
		res.BreakEvenStake = breakEven
		res.BreakEvenDefined = true
	} else {
		log.Printf("[checker] break-even undefined: %v", err)
	}

	res.Curve = engine.Curve(stakeLevels(median, res), median)
	res.ReporterAprs = apr.EvaluateReporters(engine, reporters)
	res.WeightedApr, res.MedianApr = apr.AprAverages(res.ReporterAprs)

	res.MedianProjection = engine.Projection(median)
	if stakeStats.ActiveCount > 0 {
		avgStake := float64(stakeStats.TotalActive) / float64(stakeStats.ActiveCount)
		res.AvgProjection = engine.Projection(avgStake)
	}

	res.Scenarios = engine.ScenarioTable(apr.DefaultScenarioLevels)
	if current, err := engine.CurrentNetworkApr(); err == nil {
		res.CurrentNetworkApr = current
		res.NetworkAprDefined = true
	}

	res.FeedTips, res.TipSummary = tips.CurrentTips(ctx, reader, cfg.QueryFeeds)
	res.TotalTips, res.TotalTipsOK = tips.TotalTips(ctx, reader)
	res.AvailableTips, res.AvailableTipsOK = tips.AvailableTips(ctx, reader, cfg.AccountAddress)

	return res, nil
}

// measureMint prefers event-measured emission and falls back to the fixed
// schedule when the window held no mint events, cross-checking the two
// whenever both are available.
func measureMint(ctx context.Context, s *sampler.Sampler, window int, avgBlockTime float64) (float64, []types.MintEvent, string) {
	minter := mint.NewMinter()
	blockInterval := time.Duration(avgBlockTime * float64(time.Second))
	expected, expErr := minter.ExpectedPerBlock(blockInterval)

	avgMint, events, err := s.DetectMintEvents(ctx, window)
	if err != nil || avgMint <= 0 {
		if err != nil {
			log.Printf("[checker] mint event scan failed: %v", err)
		}
		if expErr != nil {
			log.Printf("[checker] expected mint unavailable: %v", expErr)
			return 0, nil, MintSourceExpected
		}
		log.Printf("[checker] no mint events found, using expected schedule (%.1f loya/block)", expected)
		return expected, nil, MintSourceExpected
	}

	if expErr == nil && math.Abs(avgMint-expected) > mintSanityToleranceLoya {
		log.Printf("[checker] WARN: measured mint %.1f loya/block differs from expected %.1f by %.1f",
			avgMint, expected, math.Abs(avgMint-expected))
	}
	return avgMint, events, MintSourceEvents
}

// measureFees runs the fee estimator, degrading to a pure min-gas estimate
// when even the block scan is impossible.
func measureFees(ctx context.Context, reader rpc.Reader, cfg *config.Config) types.FeeStats {
	estimator := fees.New(reader)
	estimator.MinGasPriceOverride = cfg.MinGasPrice

	feeStats, err := estimator.EstimateAvgFee(ctx, cfg.FeeWindow)
	if err == nil {
		return feeStats
	}
	log.Printf("[checker] fee estimation failed: %v", err)

	minGas, gasErr := estimator.MinGasPrice(ctx)
	if gasErr != nil {
		log.Printf("[checker] min gas price unavailable: %v", gasErr)
		return types.FeeStats{LowConfidence: true}
	}
	return types.FeeStats{
		MinGasPrice:   minGas,
		AvgFee:        minGas * fees.EstimatedGasPerSubmission,
		LowConfidence: true,
	}
}

// stakeLevels builds the ascending candidate stake ladder for the APR
// curve: multiples of the median validator stake, floored at 1 TRB, with
// the break-even stake spliced in so the curve always carries its marker.
func stakeLevels(medianStake float64, res *Result) []float64 {
	multipliers := []float64{0.02, 0.05, 0.08, 0.1, 0.15, 0.2, 0.25, 0.3, 0.4, 0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 3.0, 5.0, 10.0, 20.0}

	seen := make(map[float64]bool)
	var levels []float64
	add := func(v float64) {
		if v >= types.LoyaPerTRB && !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	for _, m := range multipliers {
		add(m * medianStake)
	}
	add(float64(types.LoyaPerTRB)) // the 1 TRB floor itself
	if res.BreakEvenDefined {
		add(res.BreakEvenStake)
	}
	sort.Float64s(levels)
	return levels
}
