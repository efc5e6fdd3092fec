package fees

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellor-io/layer-profitability-checker/internal/rpc/rpctest"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

func submitTx(fee string, gasWanted, gasUsed int64) types.TxResult {
	return types.TxResult{
		GasWanted: gasWanted,
		GasUsed:   gasUsed,
		Events: []types.Event{
			{Type: "message", Attributes: []types.EventAttribute{
				{Key: "action", Value: SubmitValueMsgType},
			}},
			{Type: "tx", Attributes: []types.EventAttribute{
				{Key: "fee", Value: fee},
			}},
		},
	}
}

func transferTx(fee string) types.TxResult {
	tx := submitTx(fee, 80_000, 60_000)
	tx.Events[0].Attributes[0].Value = "/cosmos.bank.v1beta1.MsgSend"
	return tx
}

func feeReader(currentHeight int64, txsByHeight map[int64][]types.TxResult) *rpctest.Reader {
	return &rpctest.Reader{
		StatusFn: func(ctx context.Context) (types.ChainStatus, error) {
			return types.ChainStatus{LatestHeight: currentHeight}, nil
		},
		BlockResultsFn: func(ctx context.Context, height int64) (types.BlockResults, error) {
			return types.BlockResults{Height: height, TxResults: txsByHeight[height]}, nil
		},
		MinGasPricesFn: func(ctx context.Context) ([]types.DecCoin, error) {
			return []types.DecCoin{{Denom: types.BondDenom, Amount: 0.025}}, nil
		},
	}
}

func TestEstimateAvgFeeAveragesOverMatchingTxs(t *testing.T) {
	reader := feeReader(10, map[int64][]types.TxResult{
		10: {submitTx("100loya", 200_000, 150_000), transferTx("999loya")},
		8:  {submitTx("300loya", 200_000, 170_000)},
	})

	e := New(reader)
	stats, err := e.EstimateAvgFee(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TxCount)
	assert.InDelta(t, 200.0, stats.AvgFee, 1e-9)
	assert.InDelta(t, 200_000.0, stats.AvgGasWanted, 1e-9)
	assert.InDelta(t, 160_000.0, stats.AvgGasUsed, 1e-9)
	assert.InDelta(t, 160_000.0*0.025, stats.AvgMinCost, 1e-9)
	assert.False(t, stats.LowConfidence)
	assert.Equal(t, 5, stats.BlocksScanned)
}

func TestEstimateAvgFeeCapsTxsPerBlock(t *testing.T) {
	// Four submissions in one block: only the first two are sampled.
	reader := feeReader(3, map[int64][]types.TxResult{
		3: {
			submitTx("100loya", 1, 1),
			submitTx("100loya", 1, 1),
			submitTx("5000loya", 1, 1),
			submitTx("5000loya", 1, 1),
		},
	})

	e := New(reader)
	stats, err := e.EstimateAvgFee(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TxCount)
	assert.InDelta(t, 100.0, stats.AvgFee, 1e-9)
}

func TestEstimateAvgFeeFallsBackWhenNoSubmissions(t *testing.T) {
	reader := feeReader(10, map[int64][]types.TxResult{
		9: {transferTx("50loya")},
	})

	e := New(reader)
	stats, err := e.EstimateAvgFee(context.Background(), 5)
	require.NoError(t, err)

	assert.True(t, stats.LowConfidence)
	assert.Zero(t, stats.TxCount)
	assert.InDelta(t, 0.025*EstimatedGasPerSubmission, stats.AvgFee, 1e-9)
}

func TestEstimateAvgFeeSkipsFailedBlocks(t *testing.T) {
	reader := feeReader(5, map[int64][]types.TxResult{
		5: {submitTx("100loya", 1, 1)},
	})
	inner := reader.BlockResultsFn
	reader.BlockResultsFn = func(ctx context.Context, height int64) (types.BlockResults, error) {
		if height == 3 {
			return types.BlockResults{}, fmt.Errorf("unreachable")
		}
		return inner(ctx, height)
	}

	e := New(reader)
	stats, err := e.EstimateAvgFee(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.BlocksScanned)
	assert.Equal(t, 1, stats.BlocksSkipped)
	assert.Equal(t, 1, stats.TxCount)
}

func TestMinGasPriceOverrideWins(t *testing.T) {
	e := New(feeReader(1, nil))
	e.MinGasPriceOverride = 0.5

	price, err := e.MinGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.5, price)
}

func TestMinGasPricePicksBondDenom(t *testing.T) {
	reader := &rpctest.Reader{
		MinGasPricesFn: func(ctx context.Context) ([]types.DecCoin, error) {
			return []types.DecCoin{
				{Denom: "uatom", Amount: 1.5},
				{Denom: types.BondDenom, Amount: 0.03},
			}, nil
		},
	}

	e := New(reader)
	price, err := e.MinGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.03, price)
}

func TestMinGasPriceMissingDenom(t *testing.T) {
	reader := &rpctest.Reader{
		MinGasPricesFn: func(ctx context.Context) ([]types.DecCoin, error) {
			return []types.DecCoin{{Denom: "uatom", Amount: 1.5}}, nil
		},
	}

	e := New(reader)
	_, err := e.MinGasPrice(context.Background())
	assert.Error(t, err)
}
