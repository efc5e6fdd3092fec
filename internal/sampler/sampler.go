package sampler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/tellor-io/layer-profitability-checker/internal/rpc"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// ErrInsufficientData means too few samples survived to compute a
// statistic. Retrying does not help: the chain state will not change the
// count, so callers surface it instead.
var ErrInsufficientData = errors.New("insufficient samples")

// MinBlockSamples is the minimum number of successfully fetched blocks
// needed to compute an average block time.
const MinBlockSamples = 2

// MintEventType is the block-result event emitted when time-based rewards
// are minted, and MintAmountKey is its amount attribute.
const (
	MintEventType = "mint"
	MintAmountKey = "amount"
)

// Sampler measures block production and reward emission over a window of
// recent blocks.
type Sampler struct {
	reader  rpc.Reader
	workers int
}

// New creates a Sampler issuing at most workers concurrent block fetches.
func New(reader rpc.Reader, workers int) *Sampler {
	if workers <= 0 {
		workers = 5
	}
	return &Sampler{reader: reader, workers: workers}
}

// windowHeights builds the descending height sequence
// [current, current-1, ...] of at most window entries, clipped so no
// height goes below 1.
func windowHeights(current int64, window int) []int64 {
	heights := make([]int64, 0, window)
	for h := current; h > current-int64(window) && h >= 1; h-- {
		heights = append(heights, h)
	}
	return heights
}

// SampleBlockTimes fetches up to window recent blocks and returns the
// average block time, together with the samples in ascending height order.
// The average divides the sampled time span by the height span, so heights
// missing from the sample never widen the apparent interval. Individual
// fetch failures are skipped; fewer than MinBlockSamples successes is
// ErrInsufficientData.
func (s *Sampler) SampleBlockTimes(ctx context.Context, window int) (float64, []types.BlockSample, error) {
	if window <= 0 {
		return 0, nil, fmt.Errorf("window must be positive, got %d", window)
	}

	status, err := s.reader.Status(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("fetching chain status: %w", err)
	}

	heights := windowHeights(status.LatestHeight, window)
	samples := s.fetchBlocks(ctx, heights)

	if len(samples) < MinBlockSamples {
		return 0, nil, fmt.Errorf("%w: got %d blocks, need %d", ErrInsufficientData, len(samples), MinBlockSamples)
	}
	if skipped := len(heights) - len(samples); skipped > 0 {
		log.Printf("[sampler] block window: %d fetched, %d skipped", len(samples), skipped)
	}

	first, last := samples[0], samples[len(samples)-1]
	span := last.Height - first.Height
	avg := last.Time.Sub(first.Time).Seconds() / float64(span)
	return avg, samples, nil
}

// fetchBlocks pulls the given heights concurrently and reassembles the
// successful samples in ascending height order, so fetch scheduling never
// leaks into the sample sequence.
func (s *Sampler) fetchBlocks(ctx context.Context, heights []int64) []types.BlockSample {
	results := make(chan types.BlockSample, len(heights))
	work := make(chan int64)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range work {
				info, err := s.reader.Block(ctx, h)
				if err != nil {
					log.Printf("[sampler] skipping block %d: %v", h, err)
					continue
				}
				results <- types.BlockSample{Height: info.Height, Time: info.Time}
			}
		}()
	}

	for _, h := range heights {
		work <- h
	}
	close(work)
	wg.Wait()
	close(results)

	samples := make([]types.BlockSample, 0, len(heights))
	for sample := range results {
		samples = append(samples, sample)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Height < samples[j].Height })
	return samples
}

// DetectMintEvents scans block results over a window for mint events and
// returns the average minted amount per block scanned, not per event found,
// since most blocks mint nothing and that must deflate the average. The
// sparse event sequence comes back in ascending height order.
func (s *Sampler) DetectMintEvents(ctx context.Context, window int) (float64, []types.MintEvent, error) {
	if window <= 0 {
		return 0, nil, fmt.Errorf("window must be positive, got %d", window)
	}

	status, err := s.reader.Status(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("fetching chain status: %w", err)
	}

	heights := windowHeights(status.LatestHeight, window)

	type scanResult struct {
		event types.MintEvent
		found bool
		ok    bool
	}
	results := make(chan scanResult, len(heights))
	work := make(chan int64)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range work {
				block, err := s.reader.BlockResults(ctx, h)
				if err != nil {
					log.Printf("[sampler] skipping block results %d: %v", h, err)
					results <- scanResult{}
					continue
				}
				amount, found, err := mintAmount(block.Events)
				if err != nil {
					log.Printf("[sampler] unparsable mint event at %d: %v", h, err)
					results <- scanResult{}
					continue
				}
				results <- scanResult{
					event: types.MintEvent{Height: h, Amount: amount},
					found: found,
					ok:    true,
				}
			}
		}()
	}

	for _, h := range heights {
		work <- h
	}
	close(work)
	wg.Wait()
	close(results)

	var (
		scanned int
		total   int64
		events  []types.MintEvent
	)
	for r := range results {
		if !r.ok {
			continue
		}
		scanned++
		if r.found {
			total += r.event.Amount
			events = append(events, r.event)
		}
	}

	if scanned == 0 {
		return 0, nil, fmt.Errorf("%w: no block results in window of %d", ErrInsufficientData, window)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Height < events[j].Height })

	avg := float64(total) / float64(scanned)
	return avg, events, nil
}
