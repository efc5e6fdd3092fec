package tips

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellor-io/layer-profitability-checker/internal/config"
	"github.com/tellor-io/layer-profitability-checker/internal/rpc/rpctest"
)

var testFeeds = []config.QueryFeed{
	{Name: "eth/usd", QueryData: "00aa"},
	{Name: "btc/usd", QueryData: "00bb"},
	{Name: "trb/usd", QueryData: "00cc"},
}

func TestCurrentTipsSummarizes(t *testing.T) {
	reader := &rpctest.Reader{
		CurrentTipFn: func(ctx context.Context, queryData string) (int64, error) {
			switch queryData {
			case "00aa":
				return 500_000, nil
			case "00bb":
				return 0, nil
			default:
				return 1_500_000, nil
			}
		},
	}

	tips, summary := CurrentTips(context.Background(), reader, testFeeds)
	require.Len(t, tips, 3)

	// Zero-tip feeds are listed but not counted as tipped.
	assert.Equal(t, 2, summary.TippedFeeds)
	assert.Equal(t, int64(2_000_000), summary.Total)
	assert.Equal(t, int64(1_500_000), summary.Highest)
	assert.Equal(t, int64(500_000), summary.Lowest)
	assert.InDelta(t, 1_000_000.0, summary.Average(), 1e-9)
}

func TestCurrentTipsSkipsFailedFeeds(t *testing.T) {
	reader := &rpctest.Reader{
		CurrentTipFn: func(ctx context.Context, queryData string) (int64, error) {
			if queryData == "00bb" {
				return 0, fmt.Errorf("bad query data")
			}
			return 100, nil
		},
	}

	tips, summary := CurrentTips(context.Background(), reader, testFeeds)
	assert.Len(t, tips, 2)
	assert.Equal(t, 2, summary.TippedFeeds)
}

func TestSummaryAverageEmpty(t *testing.T) {
	assert.Zero(t, Summary{}.Average())
}

func TestTotalTips(t *testing.T) {
	reader := &rpctest.Reader{
		TotalTipsFn: func(ctx context.Context) (int64, error) {
			return 9_000_000, nil
		},
	}

	total, ok := TotalTips(context.Background(), reader)
	assert.True(t, ok)
	assert.Equal(t, int64(9_000_000), total)

	_, ok = TotalTips(context.Background(), &rpctest.Reader{})
	assert.False(t, ok)
}

func TestAvailableTips(t *testing.T) {
	reader := &rpctest.Reader{
		AvailableTipsFn: func(ctx context.Context, selectorAddress string) (int64, error) {
			assert.Equal(t, "tellor1aaa", selectorAddress)
			return 42_000, nil
		},
	}

	amount, ok := AvailableTips(context.Background(), reader, "tellor1aaa")
	assert.True(t, ok)
	assert.Equal(t, int64(42_000), amount)
}

func TestAvailableTipsNoAddress(t *testing.T) {
	_, ok := AvailableTips(context.Background(), &rpctest.Reader{}, "")
	assert.False(t, ok)
}

func TestAvailableTipsQueryFailure(t *testing.T) {
	reader := &rpctest.Reader{
		AvailableTipsFn: func(ctx context.Context, selectorAddress string) (int64, error) {
			return 0, fmt.Errorf("account not found")
		},
	}

	_, ok := AvailableTips(context.Background(), reader, "tellor1zzz")
	assert.False(t, ok)
}
