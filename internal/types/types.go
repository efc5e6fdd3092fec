package types

import "time"

// Loya is the base denomination of the Tellor Layer chain.
// 1 TRB = 1,000,000 loya. All amounts crossing the RPC boundary are
// integers in loya; conversion to TRB happens only when formatting output.
const (
	BondDenom  = "loya"
	LoyaPerTRB = 1_000_000
)

// ChainStatus holds the chain identity and sync position returned by /status.
type ChainStatus struct {
	ChainID      string
	LatestHeight int64
}

// BlockInfo is the subset of a block we sample: its height, header time
// and how many transactions it carried.
type BlockInfo struct {
	Height  int64
	Time    time.Time
	TxCount int
}

// BlockSample is one point in a block-time sampling window. Samples are
// always ordered by strictly increasing height and timestamp.
type BlockSample struct {
	Height int64     `json:"height"`
	Time   time.Time `json:"time"`
}

// MintEvent records tokens minted at a single height. Most blocks mint
// nothing, so the sequence over a window is sparse.
type MintEvent struct {
	Height int64 `json:"height"`
	Amount int64 `json:"amount"` // loya
}

// EventAttribute is one key/value pair attached to a block-result event.
type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a generic block-result event: a type tag plus attributes.
type Event struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}

// TxResult is the execution result of one transaction within a block.
type TxResult struct {
	GasWanted int64   `json:"gas_wanted,string"`
	GasUsed   int64   `json:"gas_used,string"`
	Events    []Event `json:"events"`
}

// BlockResults bundles the begin/end-block events and per-tx results
// returned by /block_results for one height.
type BlockResults struct {
	Height    int64
	Events    []Event
	TxResults []TxResult
}

// BondStatus is a validator's bonding state. Jailed validators are carried
// as their own status so downstream statistics can exclude them.
type BondStatus string

const (
	StatusBonded    BondStatus = "bonded"
	StatusUnbonding BondStatus = "unbonding"
	StatusUnbonded  BondStatus = "unbonded"
	StatusJailed    BondStatus = "jailed"
)

// ValidatorRecord is one validator as collected from the staking module.
// Read-only after collection.
type ValidatorRecord struct {
	Address        string
	Tokens         int64 // loya
	Status         BondStatus
	CommissionRate float64 // 0.0 - 1.0
}

// ReporterStatus is a reporter's participation state.
type ReporterStatus string

const (
	ReporterActive   ReporterStatus = "active"
	ReporterInactive ReporterStatus = "inactive"
	ReporterJailed   ReporterStatus = "jailed"
)

// ReporterRecord is one oracle reporter. Power is the reporter's
// stake-equivalent weight in loya; power and stake share units.
type ReporterRecord struct {
	SelectorAddress string
	Moniker         string
	Power           int64 // loya
	Status          ReporterStatus
	CommissionRate  float64 // 0.0 - 1.0
}

// StakeEquivalent returns the stake amount a reporter's power represents.
func (r ReporterRecord) StakeEquivalent() int64 { return r.Power }

// DecCoin is a denom/amount pair with a decimal amount, as returned by the
// globalfee module for minimum gas prices.
type DecCoin struct {
	Denom  string
	Amount float64
}

// Quartiles are order statistics of a stake distribution, computed with
// linear interpolation between ranks.
type Quartiles struct {
	Q1     float64
	Median float64
	Q3     float64
}

// StakeStats is the aggregate view of the validator set. Quartiles cover
// bonded validators only; jailed stake is reported separately.
type StakeStats struct {
	TotalActive    int64 // loya, bonded validators
	TotalUnbonding int64
	TotalUnbonded  int64
	TotalJailed    int64

	ActiveCount    int
	UnbondingCount int
	UnbondedCount  int
	JailedCount    int

	Quartiles    Quartiles
	ActiveStakes []int64 // per-validator bonded tokens, ascending
}

// ReporterStats is the aggregate view of the reporter set.
type ReporterStats struct {
	ActiveCount      int
	InactiveCount    int
	JailedCount      int
	TotalActivePower int64 // loya

	Active   []ReporterRecord
	Inactive []ReporterRecord
	Jailed   []ReporterRecord
}

// Total returns the size of the whole reporter set.
func (s ReporterStats) Total() int {
	return s.ActiveCount + s.InactiveCount + s.JailedCount
}

// FeeStats summarizes sampled submit-value transaction costs over a window.
type FeeStats struct {
	TxCount       int
	AvgGasWanted  float64
	AvgGasUsed    float64
	AvgFee        float64 // loya per tx
	AvgMinCost    float64 // gas_used * min gas price, loya
	MinGasPrice   float64 // loya per gas unit
	BlocksScanned int
	BlocksSkipped int

	// LowConfidence marks an AvgFee derived from the min-gas-price fallback
	// rather than observed transactions.
	LowConfidence bool
}

// NetworkSnapshot is one internally consistent set of measured network
// parameters. Every rate is derived from the same sampled block range and
// the value is immutable once built; a new run builds a fresh snapshot.
type NetworkSnapshot struct {
	ChainID           string  `json:"chain_id"`
	CurrentHeight     int64   `json:"current_height"`
	AvgBlockTime      float64 `json:"avg_block_time_seconds"` // > 0
	AvgMintPerBlock   float64 `json:"avg_mint_per_block"`     // loya, >= 0
	TotalTokensActive int64   `json:"total_tokens_active"`    // loya
	TotalTokensJailed int64   `json:"total_tokens_jailed"`    // loya
	AvgFeePerTx       float64 `json:"avg_fee_per_tx"`         // loya, >= 0
	MinGasPrice       float64 `json:"min_gas_price"`

	// MintDataSource records whether AvgMintPerBlock came from observed mint
	// events or from the expected-provision fallback.
	MintDataSource string `json:"mint_data_source"`
	FeeFallback    bool   `json:"fee_fallback"`
}

// AprPoint is one point on the APR-vs-stake curve. Points are never
// mutated after the curve is built.
type AprPoint struct {
	StakeAmount    float64 `json:"stake_amount"` // loya
	AprPercent     float64 `json:"apr_percent"`
	Undefined      bool    `json:"undefined,omitempty"`
	IsBreakEven    bool    `json:"is_break_even,omitempty"`
	IsMedianMarker bool    `json:"is_median_marker,omitempty"`
}

// ProfitProjection scales one profit-per-block figure across fixed time
// horizons. All fields are in loya.
type ProfitProjection struct {
	PerBlock float64 `json:"per_block"`
	PerHour  float64 `json:"per_hour"`
	PerDay   float64 `json:"per_day"`
	PerMonth float64 `json:"per_month"` // 30 days
	PerYear  float64 `json:"per_year"`  // 365 days
}

// ReporterAPR is the profitability evaluation of a single reporter.
// Undefined marks a reporter whose power admits no APR (zero power);
// such rows are kept and flagged rather than dropped.
type ReporterAPR struct {
	Address         string  `json:"address"`
	Moniker         string  `json:"moniker"`
	Power           int64   `json:"power"` // loya
	AprPercent      float64 `json:"apr_percent"`
	CommissionRate  float64 `json:"commission_rate"`
	NetAnnualProfit float64 `json:"net_annual_profit"` // loya, after commission
	Earning         bool    `json:"earning"`
	Undefined       bool    `json:"undefined,omitempty"`
}

// TRB converts a loya amount to display units.
func TRB(loya float64) float64 { return loya / LoyaPerTRB }
