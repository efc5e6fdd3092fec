package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

func TestAggregateValidatorsSplitsStatuses(t *testing.T) {
	stats := AggregateValidators([]types.ValidatorRecord{
		{Tokens: 1_000_000, Status: types.StatusBonded},
		{Tokens: 3_000_000, Status: types.StatusBonded},
		{Tokens: 2_000_000, Status: types.StatusBonded},
		{Tokens: 4_000_000, Status: types.StatusBonded},
		{Tokens: 500_000, Status: types.StatusUnbonding},
		{Tokens: 700_000, Status: types.StatusJailed},
		{Tokens: 100_000, Status: types.StatusUnbonded},
	})

	assert.Equal(t, int64(10_000_000), stats.TotalActive)
	assert.Equal(t, 4, stats.ActiveCount)
	assert.Equal(t, int64(500_000), stats.TotalUnbonding)
	assert.Equal(t, int64(700_000), stats.TotalJailed)
	assert.Equal(t, 1, stats.JailedCount)
	assert.Equal(t, int64(100_000), stats.TotalUnbonded)

	// Jailed and unbonding stake never enters the distribution.
	require.Len(t, stats.ActiveStakes, 4)
	assert.Equal(t, []int64{1_000_000, 2_000_000, 3_000_000, 4_000_000}, stats.ActiveStakes)
}

func TestQuartilesInterpolate(t *testing.T) {
	stats := AggregateValidators([]types.ValidatorRecord{
		{Tokens: 10, Status: types.StatusBonded},
		{Tokens: 20, Status: types.StatusBonded},
		{Tokens: 30, Status: types.StatusBonded},
		{Tokens: 40, Status: types.StatusBonded},
	})

	q := stats.Quartiles
	assert.InDelta(t, 17.5, q.Q1, 1e-9)
	assert.InDelta(t, 25.0, q.Median, 1e-9)
	assert.InDelta(t, 32.5, q.Q3, 1e-9)
	assert.LessOrEqual(t, q.Q1, q.Median)
	assert.LessOrEqual(t, q.Median, q.Q3)
}

func TestQuartilesIdenticalStakesCollapse(t *testing.T) {
	stats := AggregateValidators([]types.ValidatorRecord{
		{Tokens: 50, Status: types.StatusBonded},
		{Tokens: 50, Status: types.StatusBonded},
		{Tokens: 50, Status: types.StatusBonded},
	})

	q := stats.Quartiles
	assert.Equal(t, 50.0, q.Q1)
	assert.Equal(t, 50.0, q.Median)
	assert.Equal(t, 50.0, q.Q3)
}

func TestQuartilesSingleValidator(t *testing.T) {
	stats := AggregateValidators([]types.ValidatorRecord{
		{Tokens: 42, Status: types.StatusBonded},
	})
	assert.Equal(t, 42.0, stats.Quartiles.Median)
}

func TestAggregateValidatorsEmptySet(t *testing.T) {
	stats := AggregateValidators(nil)
	assert.Zero(t, stats.TotalActive)
	assert.Zero(t, stats.ActiveCount)
	assert.Empty(t, stats.ActiveStakes)
	assert.Zero(t, stats.Quartiles.Median)
}

func TestAggregateReporters(t *testing.T) {
	stats := AggregateReporters([]types.ReporterRecord{
		{SelectorAddress: "tellor1aaa", Power: 5_000_000, Status: types.ReporterActive},
		{SelectorAddress: "tellor1bbb", Power: 3_000_000, Status: types.ReporterActive},
		{SelectorAddress: "tellor1ccc", Power: 0, Status: types.ReporterInactive},
		{SelectorAddress: "tellor1ddd", Power: 2_000_000, Status: types.ReporterJailed},
	})

	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, int64(8_000_000), stats.TotalActivePower)
	assert.Equal(t, 1, stats.InactiveCount)
	assert.Equal(t, 1, stats.JailedCount)
	require.Len(t, stats.Active, 2)
	require.Len(t, stats.Jailed, 1)
	assert.Equal(t, "tellor1ddd", stats.Jailed[0].SelectorAddress)
}
