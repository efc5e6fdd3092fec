package sampler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellor-io/layer-profitability-checker/internal/rpc/rpctest"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// chainReader builds a fixture with blocks at the given height producing
// one block every interval, tip at currentHeight.
func chainReader(currentHeight int64, interval time.Duration) *rpctest.Reader {
	return &rpctest.Reader{
		StatusFn: func(ctx context.Context) (types.ChainStatus, error) {
			return types.ChainStatus{ChainID: "layertest-1", LatestHeight: currentHeight}, nil
		},
		BlockFn: func(ctx context.Context, height int64) (types.BlockInfo, error) {
			return types.BlockInfo{
				Height: height,
				Time:   epoch.Add(time.Duration(height) * interval),
			}, nil
		},
	}
}

func TestSampleBlockTimesAverages(t *testing.T) {
	s := New(chainReader(100, 2*time.Second), 5)

	avg, samples, err := s.SampleBlockTimes(context.Background(), 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, avg, 1e-9)
	require.Len(t, samples, 10)

	// Concurrent fetches must reassemble in ascending height order.
	for i, sample := range samples {
		assert.Equal(t, int64(91+i), sample.Height)
		if i > 0 {
			assert.True(t, sample.Time.After(samples[i-1].Time))
		}
	}
}

func TestSampleBlockTimesSkipsFailedBlocks(t *testing.T) {
	reader := chainReader(100, 2*time.Second)
	inner := reader.BlockFn
	reader.BlockFn = func(ctx context.Context, height int64) (types.BlockInfo, error) {
		// 3 of 10 blocks unreachable.
		if height == 93 || height == 95 || height == 98 {
			return types.BlockInfo{}, fmt.Errorf("connection refused")
		}
		return inner(ctx, height)
	}

	s := New(reader, 3)
	avg, samples, err := s.SampleBlockTimes(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, samples, 7)

	// A delta spanning a missing height covers more than one block, so the
	// average divides by the height span. The chain runs at 2s per block
	// and the gaps must not widen that.
	assert.InDelta(t, 2.0, avg, 1e-9)
}

func TestSampleBlockTimesInsufficientData(t *testing.T) {
	reader := chainReader(100, 2*time.Second)
	inner := reader.BlockFn
	reader.BlockFn = func(ctx context.Context, height int64) (types.BlockInfo, error) {
		if height != 100 {
			return types.BlockInfo{}, fmt.Errorf("unreachable")
		}
		return inner(ctx, height)
	}

	s := New(reader, 2)
	_, _, err := s.SampleBlockTimes(context.Background(), 10)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSampleBlockTimesClipsAtGenesis(t *testing.T) {
	s := New(chainReader(3, time.Second), 2)

	_, samples, err := s.SampleBlockTimes(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, samples, 3, "window must clip at height 1")
	assert.Equal(t, int64(1), samples[0].Height)
}

func TestSampleBlockTimesRejectsBadWindow(t *testing.T) {
	s := New(chainReader(100, time.Second), 2)
	_, _, err := s.SampleBlockTimes(context.Background(), 0)
	assert.Error(t, err)
}

func mintReader(currentHeight int64, eventsByHeight map[int64][]types.Event) *rpctest.Reader {
	return &rpctest.Reader{
		StatusFn: func(ctx context.Context) (types.ChainStatus, error) {
			return types.ChainStatus{LatestHeight: currentHeight}, nil
		},
		BlockResultsFn: func(ctx context.Context, height int64) (types.BlockResults, error) {
			return types.BlockResults{Height: height, Events: eventsByHeight[height]}, nil
		},
	}
}

func mintEvent(amount string) []types.Event {
	return []types.Event{{
		Type: MintEventType,
		Attributes: []types.EventAttribute{
			{Key: MintAmountKey, Value: amount},
		},
	}}
}

func TestDetectMintEventsDividesByBlocksScanned(t *testing.T) {
	// One mint of 1000 across a 10 block window: the average must be 100,
	// not 1000, because empty blocks deflate it.
	reader := mintReader(100, map[int64][]types.Event{
		95: mintEvent("1000loya"),
	})

	s := New(reader, 4)
	avg, events, err := s.DetectMintEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, avg, 1e-9)
	require.Len(t, events, 1)
	assert.Equal(t, int64(95), events[0].Height)
	assert.Equal(t, int64(1000), events[0].Amount)
}

func TestDetectMintEventsOrdersByHeight(t *testing.T) {
	reader := mintReader(20, map[int64][]types.Event{
		12: mintEvent("300"),
		18: mintEvent("100"),
		15: mintEvent("200"),
	})

	s := New(reader, 5)
	avg, events, err := s.DetectMintEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, avg, 1e-9) // 600 over 10 blocks
	require.Len(t, events, 3)
	assert.Equal(t, []int64{12, 15, 18}, []int64{events[0].Height, events[1].Height, events[2].Height})
}

func TestDetectMintEventsSkipsUnparsableBlocks(t *testing.T) {
	reader := mintReader(10, map[int64][]types.Event{
		9: mintEvent("90loya"),
		5: mintEvent("not-a-number"),
	})

	s := New(reader, 2)
	avg, events, err := s.DetectMintEvents(context.Background(), 10)
	require.NoError(t, err)
	// Block 5 fails to parse and drops out of the scanned count.
	assert.InDelta(t, 10.0, avg, 1e-9) // 90 over 9 scanned blocks
	assert.Len(t, events, 1)
}

func TestDetectMintEventsAllBlocksFailing(t *testing.T) {
	reader := &rpctest.Reader{
		StatusFn: func(ctx context.Context) (types.ChainStatus, error) {
			return types.ChainStatus{LatestHeight: 100}, nil
		},
		BlockResultsFn: func(ctx context.Context, height int64) (types.BlockResults, error) {
			return types.BlockResults{}, fmt.Errorf("unreachable")
		},
	}

	s := New(reader, 2)
	_, _, err := s.DetectMintEvents(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
